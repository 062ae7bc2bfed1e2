// Package secrets resolves upstream API credentials. Values are fetched on
// every call and never cached by this package.
package secrets

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Provider returns the value of every requested name, or an error naming
// the ones it could not resolve.
type Provider interface {
	Get(ctx context.Context, names ...string) (map[string]string, error)
}

// Static serves fixed values.
type Static map[string]string

func (s Static) Get(_ context.Context, names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	var missing []string
	for _, n := range names {
		v, ok := s[n]
		if !ok || v == "" {
			missing = append(missing, n)
			continue
		}
		out[n] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("secrets not configured: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

type SSMAPI interface {
	GetParameters(ctx context.Context, in *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// SSMProvider reads SecureString parameters from AWS Systems Manager.
type SSMProvider struct {
	client SSMAPI
}

func NewSSMProvider(client SSMAPI) *SSMProvider {
	return &SSMProvider{client: client}
}

func (p *SSMProvider) Get(ctx context.Context, names ...string) (map[string]string, error) {
	out, err := p.client.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ssm get parameters: %w", err)
	}
	if len(out.InvalidParameters) > 0 {
		return nil, fmt.Errorf("ssm parameters not found: %s", strings.Join(out.InvalidParameters, ", "))
	}

	values := make(map[string]string, len(out.Parameters))
	for _, param := range out.Parameters {
		values[aws.ToString(param.Name)] = aws.ToString(param.Value)
	}
	for _, n := range names {
		if _, ok := values[n]; !ok {
			return nil, fmt.Errorf("ssm parameter %s missing from response", n)
		}
	}
	return values, nil
}
