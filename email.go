package magiclink

import (
	"fmt"
	"net/url"
	"time"
)

// verifyURL builds the link embedded in the email:
// <appURL>/auth/verify?token=<raw>&email=<urlencoded email>
func verifyURL(appURL, rawToken, email string) string {
	return fmt.Sprintf("%s/auth/verify?token=%s&email=%s", appURL, rawToken, url.QueryEscape(email))
}

func magicLinkEmailTemplate(linkURL, appName string, expiry time.Duration) (subject, text, html string) {
	subject = fmt.Sprintf("Sign in to %s", appName)
	minutes := int(expiry.Minutes())

	text = fmt.Sprintf(`Click this link to sign in to your account:
%s

This link expires in %d minutes and can only be used once.

If you didn't request this, ignore this email.

Best,
The %s Team`, linkURL, minutes, appName)

	html = fmt.Sprintf(`<p>Click this link to sign in to your account:</p>
<p><a href="%s">%s</a></p>
<p>This link expires in %d minutes and can only be used once.</p>
<p>If you didn't request this, ignore this email.</p>
<p>Best,<br>The %s Team</p>`, linkURL, linkURL, minutes, appName)

	return subject, text, html
}
