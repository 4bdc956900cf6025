// Package userauth implements a stateless bearer token authentication core:
// credential verification against bcrypt hashes, issuance and validation of
// HS256 signed expiring tokens, identifier to identity resolution, and a per
// request access gate that attaches an authenticated principal to the request
// context.
//
// The package owns no user data. It reads identities through a small store
// contract and never mutates them; a token's validity is proven solely by its
// signature and expiry against the process wide signing secret. There is no
// revocation list: an issued token stays valid until natural expiry, even if
// the owning account is locked in the meantime.
package userauth
