package config

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// LoadSSMParameters reads every parameter below prefix (decrypting SecureStrings) using the
// default AWS credential chain.
func LoadSSMParameters(ctx context.Context, prefix string) (map[string]string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return fetchParameters(ctx, ssm.NewFromConfig(awsCfg), prefix)
}

func fetchParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string) (map[string]string, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	var params []types.Parameter
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		params = append(params, page.Parameters...)
	}

	return parametersToEnv(params), nil
}

// parametersToEnv keys each value by the last path segment, so /portfolio/prod/JWT_SECRET
// becomes JWT_SECRET.
func parametersToEnv(params []types.Parameter) map[string]string {
	out := make(map[string]string, len(params))
	for _, p := range params {
		name := strings.TrimSpace(path.Base(aws.ToString(p.Name)))
		if name == "" || name == "." || name == "/" {
			continue
		}
		out[name] = aws.ToString(p.Value)
	}
	return out
}
