/*
Package magiclink provides passwordless, email-based authentication.

The flow is the following:

 1. A user wants to sign in. They provide their email.
 2. A single-use link is emailed to them by Authenticator.SendLink().
 3. The user opens the link; the embedded token is verified by
    Authenticator.VerifyLink(), which resolves (or creates) the user and
    mints a signed session credential.
 4. Subsequent requests present the session credential, which can be
    checked with SessionIssuer.Verify().

Raw tokens are never persisted, only their one-way storage hash. A link is
valid for one successful verification; concurrent attempts against the same
token race to exactly one winner. Sends are rate limited per (email, origin
IP), and security-relevant outcomes (identity mismatch, token reuse,
successful login) are recorded in a bounded audit log.

The Authenticator takes its collaborators as constructor arguments: an
expiring key-value store (package store), a mail transport (package mailer),
a user directory (package directory) and a session issuer. The composing
application owns their lifetime; HTTP routing and page rendering are its
business, not this package's.
*/
package magiclink
