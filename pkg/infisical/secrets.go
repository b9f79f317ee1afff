package infisical

import (
	"context"
	"strconv"
	"strings"
)

// SecretsClient reads and writes secrets. It shares the authenticated
// transport of the Client it came from.
type SecretsClient struct {
	transport *transport
	env       EnvStore
	logger    Logger
}

// ListSecrets returns the secrets of a folder merged with its imports.
//
// Owned secrets are returned first, followed by imported secrets whose key is
// not already present. With Recursive set, keys repeated across subfolders
// collapse to one entry. With ExportToEnv set, every returned secret is
// written to the client's EnvStore unless the variable already exists.
func (s *SecretsClient) ListSecrets(ctx context.Context, opts ListSecretsOptions) ([]Secret, error) {
	if err := requireScope("ListSecretsOptions", opts.projectID, opts.environment); err != nil {
		return nil, err
	}

	params := map[string]string{
		"workspaceId":            opts.projectID,
		"environment":            opts.environment,
		"recursive":              strconv.FormatBool(opts.recursive),
		"secretPath":             opts.secretPath,
		"include_imports":        "true",
		"expandSecretReferences": strconv.FormatBool(opts.expandSecretReferences),
	}
	if len(opts.tagSlugs) > 0 {
		params["tagSlugs"] = strings.Join(opts.tagSlugs, ",")
	}

	data, err := s.transport.get(ctx, "list_secrets", rawSecretsEndpoint, omitEmptyParams(params))
	if err != nil {
		return nil, err
	}

	var resp listSecretsResponse
	if err := decodeBody(data, &resp); err != nil {
		return nil, err
	}

	return resolve(resp.Secrets, resp.Imports, ResolveOptions{
		Recursive:   opts.recursive,
		ExportToEnv: opts.exportToEnv,
	}, s.env, s.logger), nil
}

// GetSecret returns a single secret. A missing secret yields an *APIError with
// status 404; see IsNotFound.
func (s *SecretsClient) GetSecret(ctx context.Context, opts GetSecretOptions) (Secret, error) {
	if err := requireScope("GetSecretOptions", opts.projectID, opts.environment); err != nil {
		return Secret{}, err
	}
	if err := requireSecretKey("GetSecretOptions", opts.secretKey); err != nil {
		return Secret{}, err
	}

	params := map[string]string{
		"workspaceId":            opts.projectID,
		"environment":            opts.environment,
		"secretPath":             opts.secretPath,
		"include_imports":        "true",
		"type":                   opts.secretType,
		"expandSecretReferences": strconv.FormatBool(opts.expandSecretReferences),
	}
	if opts.version > 0 {
		params["version"] = strconv.FormatUint(uint64(opts.version), 10)
	}

	data, err := s.transport.get(ctx, "get_secret", secretEndpoint(opts.secretKey), omitEmptyParams(params))
	if err != nil {
		return Secret{}, err
	}
	return decodeSecret(data)
}

// CreateSecret creates a shared secret and returns it as stored.
func (s *SecretsClient) CreateSecret(ctx context.Context, opts CreateSecretOptions) (Secret, error) {
	if err := requireScope("CreateSecretOptions", opts.projectID, opts.environment); err != nil {
		return Secret{}, err
	}
	if err := requireSecretKey("CreateSecretOptions", opts.secretKey); err != nil {
		return Secret{}, err
	}

	fields := map[string]interface{}{
		"environment":        opts.environment,
		"workspaceId":        opts.projectID,
		"secretPath":         opts.secretPath,
		"secretComment":      opts.secretComment,
		"secretValue":        opts.secretValue,
		"secretReminderNote": opts.secretReminderNote,
		"tagIds":             opts.tagIDs,
	}
	if opts.secretReminderRepeatDays > 0 {
		fields["secretReminderRepeatDays"] = opts.secretReminderRepeatDays
	}

	body, err := encodeBody(fields)
	if err != nil {
		return Secret{}, err
	}
	data, err := s.transport.post(ctx, "create_secret", secretEndpoint(opts.secretKey), body)
	if err != nil {
		return Secret{}, err
	}
	return decodeSecret(data)
}

// UpdateSecret changes the value, name or metadata of a secret. Fields left
// empty are not sent and keep their stored value.
func (s *SecretsClient) UpdateSecret(ctx context.Context, opts UpdateSecretOptions) (Secret, error) {
	if err := requireScope("UpdateSecretOptions", opts.projectID, opts.environment); err != nil {
		return Secret{}, err
	}
	if err := requireSecretKey("UpdateSecretOptions", opts.secretKey); err != nil {
		return Secret{}, err
	}

	fields := map[string]interface{}{
		"environment":        opts.environment,
		"workspaceId":        opts.projectID,
		"newSecretName":      opts.newSecretKey,
		"secretComment":      opts.secretComment,
		"secretPath":         opts.secretPath,
		"type":               opts.secretType,
		"secretReminderNote": opts.secretReminderNote,
		"secretValue":        opts.secretValue,
		"tagIds":             opts.tagIDs,
	}
	if opts.secretReminderRepeatDays > 0 {
		fields["secretReminderRepeatDays"] = opts.secretReminderRepeatDays
	}

	body, err := encodeBody(fields)
	if err != nil {
		return Secret{}, err
	}
	data, err := s.transport.patch(ctx, "update_secret", secretEndpoint(opts.secretKey), body)
	if err != nil {
		return Secret{}, err
	}
	return decodeSecret(data)
}

// DeleteSecret deletes a secret and returns its last stored state.
func (s *SecretsClient) DeleteSecret(ctx context.Context, opts DeleteSecretOptions) (Secret, error) {
	if err := requireScope("DeleteSecretOptions", opts.projectID, opts.environment); err != nil {
		return Secret{}, err
	}
	if err := requireSecretKey("DeleteSecretOptions", opts.secretKey); err != nil {
		return Secret{}, err
	}

	body, err := encodeBody(map[string]interface{}{
		"environment": opts.environment,
		"workspaceId": opts.projectID,
		"secretPath":  opts.secretPath,
		"type":        opts.secretType,
	})
	if err != nil {
		return Secret{}, err
	}
	data, err := s.transport.delete(ctx, "delete_secret", secretEndpoint(opts.secretKey), body)
	if err != nil {
		return Secret{}, err
	}
	return decodeSecret(data)
}

func decodeSecret(data []byte) (Secret, error) {
	var resp secretResponse
	if err := decodeBody(data, &resp); err != nil {
		return Secret{}, err
	}
	return resp.Secret, nil
}
