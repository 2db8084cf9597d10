// Package rest provides a JSON-focused REST client built on httpclient.
//
// It adds typed convenience functions for common REST operations:
//
//	client, err := rest.New(httpclient.Config{DefaultHost: "api.example.com"})
//
//	// Typed GET
//	user, err := rest.Get[User](ctx, client, "/users/123", rest.WithBearer(token))
//
//	// Typed POST, body encoded as JSON
//	created, err := rest.Post[User](ctx, client, "/users", CreateUserRequest{Name: "Alice"})
//
//	// Multipart upload
//	res, err := rest.Upload[Receipt](ctx, client, "/files", httpclient.MultipartFile{...})
//
// Endpoint builds the same descriptors for httpclient.Go and httpclient.Stream.
package rest
