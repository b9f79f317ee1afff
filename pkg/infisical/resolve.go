package infisical

// ResolveOptions controls the post-processing applied by Resolve.
type ResolveOptions struct {
	Recursive   bool
	ExportToEnv bool
}

// Resolve merges owned secrets with imported ones and optionally exports the
// result to env.
//
// Owned secrets keep their order and always win a key collision. Imported
// secrets that are added take the path of their import. With Recursive set,
// the result holds one secret per key: the value of the last occurrence at
// the position of the first. With ExportToEnv set, each secret is written to
// env unless the variable already exists; write failures are ignored.
//
// The input slices are not modified.
func Resolve(owned []Secret, imports []Import, opts ResolveOptions, env EnvStore) []Secret {
	return resolve(owned, imports, opts, env, nopLogger{})
}

func resolve(owned []Secret, imports []Import, opts ResolveOptions, env EnvStore, logger Logger) []Secret {
	secrets := make([]Secret, len(owned))
	copy(secrets, owned)

	if len(imports) > 0 {
		secrets = mergeImports(secrets, imports)
	}

	if opts.Recursive {
		secrets = uniqueByKey(secrets)
	}

	if opts.ExportToEnv && env != nil {
		exportToEnv(secrets, env, logger)
	}

	return secrets
}

// mergeImports appends imported secrets whose key is not already present.
// Keys added by an earlier import block later ones.
func mergeImports(secrets []Secret, imports []Import) []Secret {
	seen := make(map[string]struct{}, len(secrets))
	for _, s := range secrets {
		seen[s.SecretKey] = struct{}{}
	}

	for _, imp := range imports {
		for _, imported := range imp.Secrets {
			if _, ok := seen[imported.SecretKey]; ok {
				continue
			}
			imported.SecretPath = imp.SecretPath
			seen[imported.SecretKey] = struct{}{}
			secrets = append(secrets, imported)
		}
	}
	return secrets
}

// uniqueByKey keeps one secret per key, last occurrence wins, ordered by
// first occurrence.
func uniqueByKey(secrets []Secret) []Secret {
	index := make(map[string]int, len(secrets))
	out := make([]Secret, 0, len(secrets))
	for _, s := range secrets {
		if i, ok := index[s.SecretKey]; ok {
			out[i] = s
			continue
		}
		index[s.SecretKey] = len(out)
		out = append(out, s)
	}
	return out
}

func exportToEnv(secrets []Secret, env EnvStore, logger Logger) {
	for _, s := range secrets {
		written, err := env.SetIfAbsent(s.SecretKey, s.SecretValue)
		if err != nil {
			logger.Debug("skipping export of %s: %v", s.SecretKey, err)
			continue
		}
		if !written {
			logger.Debug("environment variable %s already set, not exported", s.SecretKey)
		}
	}
}
