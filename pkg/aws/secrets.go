package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsAPI is the Secrets Manager call the client depends on.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

const secretTTL = 15 * time.Minute

type cachedSecret struct {
	value   string
	fetched time.Time
}

// SecretsClient reads string secrets and keeps them for secretTTL so rotated
// values are eventually picked up.
type SecretsClient struct {
	api   SecretsAPI
	mu    sync.Mutex
	cache map[string]cachedSecret
	now   func() time.Time
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return newSecretsClient(secretsmanager.NewFromConfig(cfg))
}

func newSecretsClient(api SecretsAPI) *SecretsClient {
	return &SecretsClient{api: api, cache: map[string]cachedSecret{}, now: time.Now}
}

func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	hit, ok := s.cache[name]
	s.mu.Unlock()
	if ok && s.now().Sub(hit.fetched) < secretTTL {
		return hit.value, nil
	}

	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	if err != nil {
		return "", fmt.Errorf("read secret %s: %w", name, err)
	}
	value := sdkaws.ToString(out.SecretString)
	if value == "" {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	s.mu.Lock()
	s.cache[name] = cachedSecret{value: value, fetched: s.now()}
	s.mu.Unlock()
	return value, nil
}

// ApplyJSONSecret decodes a key/value secret and overwrites each target whose
// key is present with a non-empty value. Other targets keep their env values.
func (s *SecretsClient) ApplyJSONSecret(ctx context.Context, name string, targets map[string]*string) error {
	raw, err := s.GetSecret(ctx, name)
	if err != nil {
		return err
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return fmt.Errorf("secret %s is not a json object: %w", name, err)
	}
	for key, dst := range targets {
		if v := values[key]; v != "" && dst != nil {
			*dst = v
		}
	}
	return nil
}
