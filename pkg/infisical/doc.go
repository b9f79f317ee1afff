// Package infisical is a client for the Infisical secrets API.
//
// A Client authenticates a machine identity with Universal Auth once, at
// construction, and then exposes CRUD operations on raw secrets through
// SecretsClient.
//
// # Creating a client
//
//	auth, err := infisical.NewAuthenticationBuilder().
//	    WithUniversalAuth(clientID, clientSecret).
//	    Build()
//	if err != nil {
//	    return err
//	}
//
//	cfg, err := infisical.NewConfigBuilder().
//	    WithHostURL("https://app.infisical.com").
//	    WithAuthentication(auth).
//	    Build()
//	if err != nil {
//	    return err
//	}
//
//	client, err := infisical.NewClient(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//
// # Listing secrets
//
// ListSecrets merges secrets owned by the requested path with secrets
// brought in through imports. Owned secrets always win a key collision and
// imported secrets are stamped with the path of the import they came from.
// When the options request a recursive listing the result is deduplicated by
// key, the last occurrence of a key winning while keeping the position where
// the key was first seen.
//
//	opts, err := infisical.NewListSecretsOptionsBuilder().
//	    WithProjectID(projectID).
//	    WithEnvironment("dev").
//	    WithRecursive(true).
//	    WithExportToEnv(true).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	secrets, err := client.Secrets().ListSecrets(ctx, opts)
//
// When exporting, a variable that is already set in the environment is never
// overwritten. Export failures are not reported. The process environment is
// shared global state: callers using several clients from multiple goroutines
// with export enabled must serialise those calls themselves, or give each
// client its own EnvStore with WithEnvStore.
//
// # Errors
//
// Options builders fail with an *OptionsError matching ErrInvalidOptions.
// Network failures surface as *TransportError and non-success responses as
// *APIError. NewClient wraps login failures in *AuthenticationError.
package infisical
