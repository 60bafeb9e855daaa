// Package accountsdk provides a Go client for the accountd service.
//
// The SDKClient handles unauthenticated operations (registration, login,
// health checks) and creates authenticated Sessions. Sessions carry a
// token pair and transparently refresh the access token when it expires.
//
// Basic usage:
//
//	client := accountsdk.NewSDKClient("http://localhost:8080")
//
//	session, err := client.Login(ctx, "user@example.com", "secret-password")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	me, err := session.Me(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(me.Username)
package accountsdk
