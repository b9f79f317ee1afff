package infisical

// Options values are immutable once built. Builders accumulate fields and
// validate them in Build; Build may be called any number of times.

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func requireScope(options, projectID, environment string) error {
	if projectID == "" {
		return &OptionsError{Options: options, Field: "projectId", Message: "Project ID and Environment cannot be empty"}
	}
	if environment == "" {
		return &OptionsError{Options: options, Field: "environment", Message: "Project ID and Environment cannot be empty"}
	}
	return nil
}

func requireSecretKey(options, secretKey string) error {
	if secretKey == "" {
		return &OptionsError{Options: options, Field: "secretKey", Message: "Secret Key cannot be empty"}
	}
	return nil
}

// ---------------------------------------------------------------- list

// ListSecretsOptions selects the secrets returned by ListSecrets.
type ListSecretsOptions struct {
	projectID              string
	environment            string
	secretPath             string
	tagSlugs               []string
	recursive              bool
	exportToEnv            bool
	expandSecretReferences bool
}

func (o ListSecretsOptions) ProjectID() string            { return o.projectID }
func (o ListSecretsOptions) Environment() string          { return o.environment }
func (o ListSecretsOptions) SecretPath() string           { return o.secretPath }
func (o ListSecretsOptions) TagSlugs() []string           { return cloneStrings(o.tagSlugs) }
func (o ListSecretsOptions) Recursive() bool              { return o.recursive }
func (o ListSecretsOptions) ExportToEnv() bool            { return o.exportToEnv }
func (o ListSecretsOptions) ExpandSecretReferences() bool { return o.expandSecretReferences }

// ListSecretsOptionsBuilder builds ListSecretsOptions.
type ListSecretsOptionsBuilder struct {
	opts ListSecretsOptions
}

// NewListSecretsOptionsBuilder returns a builder with path "/" and secret
// reference expansion enabled.
func NewListSecretsOptionsBuilder() *ListSecretsOptionsBuilder {
	return &ListSecretsOptionsBuilder{opts: ListSecretsOptions{
		secretPath:             DefaultSecretPath,
		expandSecretReferences: true,
	}}
}

func (b *ListSecretsOptionsBuilder) WithProjectID(v string) *ListSecretsOptionsBuilder {
	b.opts.projectID = v
	return b
}

func (b *ListSecretsOptionsBuilder) WithEnvironment(v string) *ListSecretsOptionsBuilder {
	b.opts.environment = v
	return b
}

func (b *ListSecretsOptionsBuilder) WithSecretPath(v string) *ListSecretsOptionsBuilder {
	b.opts.secretPath = v
	return b
}

func (b *ListSecretsOptionsBuilder) WithTagSlugs(v []string) *ListSecretsOptionsBuilder {
	b.opts.tagSlugs = cloneStrings(v)
	return b
}

func (b *ListSecretsOptionsBuilder) WithRecursive(v bool) *ListSecretsOptionsBuilder {
	b.opts.recursive = v
	return b
}

// WithExportToEnv makes ListSecrets export the result to the environment.
func (b *ListSecretsOptionsBuilder) WithExportToEnv(v bool) *ListSecretsOptionsBuilder {
	b.opts.exportToEnv = v
	return b
}

func (b *ListSecretsOptionsBuilder) WithExpandSecretReferences(v bool) *ListSecretsOptionsBuilder {
	b.opts.expandSecretReferences = v
	return b
}

// Build validates and returns the options.
func (b *ListSecretsOptionsBuilder) Build() (ListSecretsOptions, error) {
	if err := requireScope("ListSecretsOptions", b.opts.projectID, b.opts.environment); err != nil {
		return ListSecretsOptions{}, err
	}
	out := b.opts
	out.tagSlugs = cloneStrings(b.opts.tagSlugs)
	return out, nil
}

// ---------------------------------------------------------------- get

// GetSecretOptions selects the secret returned by GetSecret.
type GetSecretOptions struct {
	projectID              string
	environment            string
	secretKey              string
	secretPath             string
	secretType             string
	version                uint
	expandSecretReferences bool
}

func (o GetSecretOptions) ProjectID() string            { return o.projectID }
func (o GetSecretOptions) Environment() string          { return o.environment }
func (o GetSecretOptions) SecretKey() string            { return o.secretKey }
func (o GetSecretOptions) SecretPath() string           { return o.secretPath }
func (o GetSecretOptions) Type() string                 { return o.secretType }
func (o GetSecretOptions) Version() uint                { return o.version }
func (o GetSecretOptions) ExpandSecretReferences() bool { return o.expandSecretReferences }

// GetSecretOptionsBuilder builds GetSecretOptions.
type GetSecretOptionsBuilder struct {
	opts GetSecretOptions
}

// NewGetSecretOptionsBuilder returns a builder for a shared secret at "/"
// with secret reference expansion enabled.
func NewGetSecretOptionsBuilder() *GetSecretOptionsBuilder {
	return &GetSecretOptionsBuilder{opts: GetSecretOptions{
		secretPath:             DefaultSecretPath,
		secretType:             SecretTypeShared,
		expandSecretReferences: true,
	}}
}

func (b *GetSecretOptionsBuilder) WithProjectID(v string) *GetSecretOptionsBuilder {
	b.opts.projectID = v
	return b
}

func (b *GetSecretOptionsBuilder) WithEnvironment(v string) *GetSecretOptionsBuilder {
	b.opts.environment = v
	return b
}

func (b *GetSecretOptionsBuilder) WithSecretKey(v string) *GetSecretOptionsBuilder {
	b.opts.secretKey = v
	return b
}

func (b *GetSecretOptionsBuilder) WithSecretPath(v string) *GetSecretOptionsBuilder {
	b.opts.secretPath = v
	return b
}

func (b *GetSecretOptionsBuilder) WithType(v string) *GetSecretOptionsBuilder {
	b.opts.secretType = v
	return b
}

// WithVersion pins a secret version. Zero means latest.
func (b *GetSecretOptionsBuilder) WithVersion(v uint) *GetSecretOptionsBuilder {
	b.opts.version = v
	return b
}

func (b *GetSecretOptionsBuilder) WithExpandSecretReferences(v bool) *GetSecretOptionsBuilder {
	b.opts.expandSecretReferences = v
	return b
}

// Build validates and returns the options.
func (b *GetSecretOptionsBuilder) Build() (GetSecretOptions, error) {
	if err := requireScope("GetSecretOptions", b.opts.projectID, b.opts.environment); err != nil {
		return GetSecretOptions{}, err
	}
	if err := requireSecretKey("GetSecretOptions", b.opts.secretKey); err != nil {
		return GetSecretOptions{}, err
	}
	return b.opts, nil
}

// ---------------------------------------------------------------- create

// CreateSecretOptions describes a secret to create.
type CreateSecretOptions struct {
	projectID                string
	environment              string
	secretKey                string
	secretPath               string
	secretValue              string
	secretComment            string
	tagIDs                   []string
	secretReminderNote       string
	secretReminderRepeatDays uint
}

func (o CreateSecretOptions) ProjectID() string              { return o.projectID }
func (o CreateSecretOptions) Environment() string            { return o.environment }
func (o CreateSecretOptions) SecretKey() string              { return o.secretKey }
func (o CreateSecretOptions) SecretPath() string             { return o.secretPath }
func (o CreateSecretOptions) SecretValue() string            { return o.secretValue }
func (o CreateSecretOptions) SecretComment() string          { return o.secretComment }
func (o CreateSecretOptions) TagIDs() []string               { return cloneStrings(o.tagIDs) }
func (o CreateSecretOptions) SecretReminderNote() string     { return o.secretReminderNote }
func (o CreateSecretOptions) SecretReminderRepeatDays() uint { return o.secretReminderRepeatDays }

// CreateSecretOptionsBuilder builds CreateSecretOptions.
type CreateSecretOptionsBuilder struct {
	opts CreateSecretOptions
}

// NewCreateSecretOptionsBuilder returns a builder for a secret at "/".
func NewCreateSecretOptionsBuilder() *CreateSecretOptionsBuilder {
	return &CreateSecretOptionsBuilder{opts: CreateSecretOptions{
		secretPath: DefaultSecretPath,
	}}
}

func (b *CreateSecretOptionsBuilder) WithProjectID(v string) *CreateSecretOptionsBuilder {
	b.opts.projectID = v
	return b
}

func (b *CreateSecretOptionsBuilder) WithEnvironment(v string) *CreateSecretOptionsBuilder {
	b.opts.environment = v
	return b
}

func (b *CreateSecretOptionsBuilder) WithSecretKey(v string) *CreateSecretOptionsBuilder {
	b.opts.secretKey = v
	return b
}

func (b *CreateSecretOptionsBuilder) WithSecretPath(v string) *CreateSecretOptionsBuilder {
	b.opts.secretPath = v
	return b
}

func (b *CreateSecretOptionsBuilder) WithSecretValue(v string) *CreateSecretOptionsBuilder {
	b.opts.secretValue = v
	return b
}

func (b *CreateSecretOptionsBuilder) WithSecretComment(v string) *CreateSecretOptionsBuilder {
	b.opts.secretComment = v
	return b
}

func (b *CreateSecretOptionsBuilder) WithTagIDs(v []string) *CreateSecretOptionsBuilder {
	b.opts.tagIDs = cloneStrings(v)
	return b
}

func (b *CreateSecretOptionsBuilder) WithSecretReminderNote(v string) *CreateSecretOptionsBuilder {
	b.opts.secretReminderNote = v
	return b
}

func (b *CreateSecretOptionsBuilder) WithSecretReminderRepeatDays(v uint) *CreateSecretOptionsBuilder {
	b.opts.secretReminderRepeatDays = v
	return b
}

// Build validates and returns the options.
func (b *CreateSecretOptionsBuilder) Build() (CreateSecretOptions, error) {
	if err := requireScope("CreateSecretOptions", b.opts.projectID, b.opts.environment); err != nil {
		return CreateSecretOptions{}, err
	}
	if err := requireSecretKey("CreateSecretOptions", b.opts.secretKey); err != nil {
		return CreateSecretOptions{}, err
	}
	out := b.opts
	out.tagIDs = cloneStrings(b.opts.tagIDs)
	return out, nil
}

// ---------------------------------------------------------------- update

// UpdateSecretOptions describes changes to an existing secret.
type UpdateSecretOptions struct {
	projectID                string
	environment              string
	secretKey                string
	newSecretKey             string
	secretPath               string
	secretType               string
	secretValue              string
	secretComment            string
	secretReminderNote       string
	secretReminderRepeatDays uint
	tagIDs                   []string
}

func (o UpdateSecretOptions) ProjectID() string              { return o.projectID }
func (o UpdateSecretOptions) Environment() string            { return o.environment }
func (o UpdateSecretOptions) SecretKey() string              { return o.secretKey }
func (o UpdateSecretOptions) NewSecretKey() string           { return o.newSecretKey }
func (o UpdateSecretOptions) SecretPath() string             { return o.secretPath }
func (o UpdateSecretOptions) Type() string                   { return o.secretType }
func (o UpdateSecretOptions) SecretValue() string            { return o.secretValue }
func (o UpdateSecretOptions) SecretComment() string          { return o.secretComment }
func (o UpdateSecretOptions) SecretReminderNote() string     { return o.secretReminderNote }
func (o UpdateSecretOptions) SecretReminderRepeatDays() uint { return o.secretReminderRepeatDays }
func (o UpdateSecretOptions) TagIDs() []string               { return cloneStrings(o.tagIDs) }

// UpdateSecretOptionsBuilder builds UpdateSecretOptions.
type UpdateSecretOptionsBuilder struct {
	opts UpdateSecretOptions
}

// NewUpdateSecretOptionsBuilder returns a builder for a shared secret at "/".
func NewUpdateSecretOptionsBuilder() *UpdateSecretOptionsBuilder {
	return &UpdateSecretOptionsBuilder{opts: UpdateSecretOptions{
		secretPath: DefaultSecretPath,
		secretType: SecretTypeShared,
	}}
}

func (b *UpdateSecretOptionsBuilder) WithProjectID(v string) *UpdateSecretOptionsBuilder {
	b.opts.projectID = v
	return b
}

func (b *UpdateSecretOptionsBuilder) WithEnvironment(v string) *UpdateSecretOptionsBuilder {
	b.opts.environment = v
	return b
}

func (b *UpdateSecretOptionsBuilder) WithSecretKey(v string) *UpdateSecretOptionsBuilder {
	b.opts.secretKey = v
	return b
}

// WithNewSecretKey renames the secret.
func (b *UpdateSecretOptionsBuilder) WithNewSecretKey(v string) *UpdateSecretOptionsBuilder {
	b.opts.newSecretKey = v
	return b
}

func (b *UpdateSecretOptionsBuilder) WithSecretPath(v string) *UpdateSecretOptionsBuilder {
	b.opts.secretPath = v
	return b
}

func (b *UpdateSecretOptionsBuilder) WithType(v string) *UpdateSecretOptionsBuilder {
	b.opts.secretType = v
	return b
}

func (b *UpdateSecretOptionsBuilder) WithSecretValue(v string) *UpdateSecretOptionsBuilder {
	b.opts.secretValue = v
	return b
}

func (b *UpdateSecretOptionsBuilder) WithSecretComment(v string) *UpdateSecretOptionsBuilder {
	b.opts.secretComment = v
	return b
}

func (b *UpdateSecretOptionsBuilder) WithSecretReminderNote(v string) *UpdateSecretOptionsBuilder {
	b.opts.secretReminderNote = v
	return b
}

func (b *UpdateSecretOptionsBuilder) WithSecretReminderRepeatDays(v uint) *UpdateSecretOptionsBuilder {
	b.opts.secretReminderRepeatDays = v
	return b
}

func (b *UpdateSecretOptionsBuilder) WithTagIDs(v []string) *UpdateSecretOptionsBuilder {
	b.opts.tagIDs = cloneStrings(v)
	return b
}

// Build validates and returns the options.
func (b *UpdateSecretOptionsBuilder) Build() (UpdateSecretOptions, error) {
	if err := requireScope("UpdateSecretOptions", b.opts.projectID, b.opts.environment); err != nil {
		return UpdateSecretOptions{}, err
	}
	if err := requireSecretKey("UpdateSecretOptions", b.opts.secretKey); err != nil {
		return UpdateSecretOptions{}, err
	}
	out := b.opts
	out.tagIDs = cloneStrings(b.opts.tagIDs)
	return out, nil
}

// ---------------------------------------------------------------- delete

// DeleteSecretOptions selects the secret removed by DeleteSecret.
type DeleteSecretOptions struct {
	projectID   string
	environment string
	secretKey   string
	secretPath  string
	secretType  string
}

func (o DeleteSecretOptions) ProjectID() string   { return o.projectID }
func (o DeleteSecretOptions) Environment() string { return o.environment }
func (o DeleteSecretOptions) SecretKey() string   { return o.secretKey }
func (o DeleteSecretOptions) SecretPath() string  { return o.secretPath }
func (o DeleteSecretOptions) Type() string        { return o.secretType }

// DeleteSecretOptionsBuilder builds DeleteSecretOptions.
type DeleteSecretOptionsBuilder struct {
	opts DeleteSecretOptions
}

// NewDeleteSecretOptionsBuilder returns a builder for a shared secret at "/".
func NewDeleteSecretOptionsBuilder() *DeleteSecretOptionsBuilder {
	return &DeleteSecretOptionsBuilder{opts: DeleteSecretOptions{
		secretPath: DefaultSecretPath,
		secretType: SecretTypeShared,
	}}
}

func (b *DeleteSecretOptionsBuilder) WithProjectID(v string) *DeleteSecretOptionsBuilder {
	b.opts.projectID = v
	return b
}

func (b *DeleteSecretOptionsBuilder) WithEnvironment(v string) *DeleteSecretOptionsBuilder {
	b.opts.environment = v
	return b
}

func (b *DeleteSecretOptionsBuilder) WithSecretKey(v string) *DeleteSecretOptionsBuilder {
	b.opts.secretKey = v
	return b
}

func (b *DeleteSecretOptionsBuilder) WithSecretPath(v string) *DeleteSecretOptionsBuilder {
	b.opts.secretPath = v
	return b
}

func (b *DeleteSecretOptionsBuilder) WithType(v string) *DeleteSecretOptionsBuilder {
	b.opts.secretType = v
	return b
}

// Build validates and returns the options.
func (b *DeleteSecretOptionsBuilder) Build() (DeleteSecretOptions, error) {
	if err := requireScope("DeleteSecretOptions", b.opts.projectID, b.opts.environment); err != nil {
		return DeleteSecretOptions{}, err
	}
	if err := requireSecretKey("DeleteSecretOptions", b.opts.secretKey); err != nil {
		return DeleteSecretOptions{}, err
	}
	return b.opts, nil
}
