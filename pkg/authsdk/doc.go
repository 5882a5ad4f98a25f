/*
Package authsdk provides a client SDK for the cookie-session authentication service,
along with the wire types the service itself encodes.

# Overview

The service keeps no server-side session state. A successful login sets two HttpOnly
cookies, accessToken (one hour) and refreshToken (seven days), and every protected
call is authorised by the accessToken cookie alone. SDKClient wraps an http.Client
with a cookie jar so that sequence works without the caller handling tokens:

	client := authsdk.NewSDKClient("https://auth.example.com")

	err := client.Signup(ctx, authsdk.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})

	err = client.Login(ctx, "alice@example.com", "correct-horse-battery")

	me, err := client.WhoAmI(ctx)
	fmt.Println(me.ID, me.Email)

# Token Refresh

Access tokens are never refreshed implicitly. When a protected call fails with
ErrForbidden because the access token expired, call Refresh and retry:

	me, err := client.WhoAmI(ctx)
	if errors.Is(err, authsdk.ErrForbidden) {
		if err := client.Refresh(ctx); err != nil {
			return err // refresh token expired too; log in again
		}
		me, err = client.WhoAmI(ctx)
	}

Refresh does not rotate the refresh token. Logout clears both cookies; tokens
already copied elsewhere stay valid until they expire.

# Error Handling

Every non-2xx response becomes an *APIError. Compare against the predefined
errors with errors.Is:

  - ErrInvalidRequest: 400, Details lists each failing field ("email is invalid")
  - ErrUserExists: 409 from Signup
  - ErrUserNotFound: 404 from Login or WhoAmI
  - ErrInvalidPassword: 401 from Login
  - ErrUnauthenticated: 401, no session cookie was sent
  - ErrForbidden: 403, the session cookie did not verify
  - ErrServerError: 500

# Thread Safety

SDKClient is safe for concurrent use, but all goroutines share its cookie jar
and therefore one session. Use one SDKClient per identity.
*/
package authsdk
