package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmTypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/rs/zerolog"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

// SSMCredentialResolver resolve clientes para credenciais guardadas em
// <prefix><client>/{access_key,secret_key,region}.
type SSMCredentialResolver struct {
	client        SSMAPI
	prefix        string
	defaultRegion string
}

// NewSSMCredentialResolver creates a resolver over an SSM client.
func NewSSMCredentialResolver(client SSMAPI, prefix, defaultRegion string) *SSMCredentialResolver {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if defaultRegion == "" {
		defaultRegion = entity.DefaultRegion
	}
	return &SSMCredentialResolver{client: client, prefix: prefix, defaultRegion: defaultRegion}
}

// NewSSMClient builds the Parameter Store client from the default AWS
// credential chain, optionally pinned to a shared config profile.
func NewSSMClient(ctx context.Context, cfg types.CredentialsConfig) (*ssm.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.SSMRegion)}
	if cfg.SSMProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.SSMProfile))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for SSM: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// Resolve implements repository.CredentialResolver. access_key and
// secret_key are required; region falls back to the default region.
func (r *SSMCredentialResolver) Resolve(ctx context.Context, clientID string) (entity.Credentials, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return entity.Credentials{}, types.ErrMissingClientName
	}

	accessKey, err := r.parameter(ctx, clientID, "access_key")
	if err != nil {
		return entity.Credentials{}, err
	}
	secretKey, err := r.parameter(ctx, clientID, "secret_key")
	if err != nil {
		return entity.Credentials{}, err
	}

	region, err := r.parameter(ctx, clientID, "region")
	if err != nil || region == "" {
		zerolog.Ctx(ctx).Info().Str("client", clientID).Str("region", r.defaultRegion).Msg("using default region")
		region = r.defaultRegion
	}

	return entity.Credentials{AccessKey: accessKey, SecretKey: secretKey, Region: region}, nil
}

func (r *SSMCredentialResolver) parameter(ctx context.Context, clientID, key string) (string, error) {
	name := r.prefix + clientID + "/" + key
	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *ssmTypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: %s (%s)", types.ErrClientNotFound, clientID, key)
		}
		return "", fmt.Errorf("could not fetch parameter %s for %s: %w", key, clientID, err)
	}
	if out.Parameter == nil {
		return "", fmt.Errorf("%w: %s (%s)", types.ErrClientNotFound, clientID, key)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// ListClients returns the unique client ids found under the prefix, in the
// order the parameter store returns them.
func (r *SSMCredentialResolver) ListClients(ctx context.Context) ([]entity.Client, error) {
	seen := make(map[string]bool)
	clients := []entity.Client{}

	paginator := ssm.NewGetParametersByPathPaginator(r.client, &ssm.GetParametersByPathInput{
		Path:           aws.String(r.prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(false),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list clients under %s: %w", r.prefix, err)
		}
		for _, param := range out.Parameters {
			id := r.clientIDFromPath(aws.ToString(param.Name))
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			clients = append(clients, entity.Client{ID: id, Name: DisplayName(id)})
		}
	}
	return clients, nil
}

func (r *SSMCredentialResolver) clientIDFromPath(name string) string {
	rest, ok := strings.CutPrefix(name, r.prefix)
	if !ok {
		return ""
	}
	id, _, found := strings.Cut(rest, "/")
	if !found {
		return ""
	}
	return id
}

// DisplayName turns "acme_corp" into "Acme Corp".
func DisplayName(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

var _ repository.CredentialResolver = (*SSMCredentialResolver)(nil)
