package token

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sealbox/core/crypt"
)

// RotateKey re-encodes a token under a new secret: decode with the old
// secret, encode with the new one. Encode options apply to the new token;
// omitted options fall back to the manager defaults, not to the original
// token's settings. Fails without partial result if either step fails.
func (m *Manager) RotateKey(ctx context.Context, token string, oldSecret, newSecret crypt.Secret, opts ...EncodeOption) (string, error) {
	var payload json.RawMessage
	if err := m.Decode(ctx, token, oldSecret, &payload); err != nil {
		return "", err
	}

	return m.Encode(ctx, payload, newSecret, opts...)
}

// RotateKeys rotates every token in the batch, fanning the independent
// per-token pipelines out concurrently. The call is all-or-nothing: if any
// rotation fails the whole call fails and none of the outputs must be used.
// On success the result is ordered as the input.
func (m *Manager) RotateKeys(ctx context.Context, tokens []string, oldSecret, newSecret crypt.Secret, opts ...EncodeOption) ([]string, error) {
	rotated := make([]string, len(tokens))

	g, ctx := errgroup.WithContext(ctx)
	for i, tok := range tokens {
		i, tok := i, tok
		g.Go(func() error {
			out, err := m.RotateKey(ctx, tok, oldSecret, newSecret, opts...)
			if err != nil {
				return err
			}
			rotated[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rotated, nil
}

// DecodeWithFallback tries each candidate secret in order and decodes into
// dst with the first one that succeeds, returning its index. Designed for
// key-transition windows where tokens encoded under the previous key are
// still in flight. When every candidate fails, the returned index is -1 and
// the error is a *FallbackError aggregating the per-key failures.
func (m *Manager) DecodeWithFallback(ctx context.Context, token string, secrets []crypt.Secret, dst any) (int, error) {
	if len(secrets) == 0 {
		return -1, ErrNoSecrets
	}

	failures := make([]error, 0, len(secrets))
	for i, secret := range secrets {
		err := m.Decode(ctx, token, secret, dst)
		if err == nil {
			return i, nil
		}
		failures = append(failures, err)
	}

	return -1, &FallbackError{Attempts: len(secrets), Failures: failures}
}

// rotationCheck carries the outcome of a rotation dry run, including which
// step failed. Internal callers keep the diagnostic detail; only the
// outermost convenience layer collapses it to a boolean.
type rotationCheck struct {
	step string
	err  error
}

func (m *Manager) checkRotation(ctx context.Context, token string, oldSecret, newSecret crypt.Secret) rotationCheck {
	var payload json.RawMessage
	if err := m.Decode(ctx, token, oldSecret, &payload); err != nil {
		return rotationCheck{step: "decode", err: err}
	}

	rotated, err := m.Encode(ctx, payload, newSecret)
	if err != nil {
		return rotationCheck{step: "encode", err: err}
	}

	var verify json.RawMessage
	if err := m.Decode(ctx, rotated, newSecret, &verify); err != nil {
		return rotationCheck{step: "verify", err: err}
	}

	return rotationCheck{}
}

// ValidateRotation performs a decode-encode-decode dry run and reports
// whether a rotation from oldSecret to newSecret would succeed. All
// failures collapse into false; no token is returned and no partial
// information leaks.
func (m *Manager) ValidateRotation(ctx context.Context, token string, oldSecret, newSecret crypt.Secret) bool {
	return m.checkRotation(ctx, token, oldSecret, newSecret).err == nil
}
