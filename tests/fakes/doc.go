// Package fakes provides test doubles for the Infisical client and CLI.
//
// FakeInfisicalServer is an httptest server speaking the subset of the
// Infisical API the client uses. It records every request so tests can
// assert on the exact query parameters and JSON bodies that were sent.
//
// Usage:
//
//	srv := fakes.NewFakeInfisicalServer()
//	defer srv.Close()
//	srv.SetSecret("dev", "/", "DB_URL", "postgres://localhost")
//
//	auth, _ := infisical.NewAuthenticationBuilder().
//	    WithUniversalAuth(srv.ClientID, srv.ClientSecret).
//	    Build()
//	cfg, _ := infisical.NewConfigBuilder().
//	    WithHostURL(srv.URL).
//	    WithAuthentication(auth).
//	    Build()
//	client, err := infisical.NewClient(ctx, cfg)
package fakes
