package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// LoadSSM overlays AWS SSM Parameter Store values under pathPrefix onto the
// config map. Parameter names are mapped to env-style keys, e.g.
// /portfolio/prod/RESEND_API_KEY -> RESEND_API_KEY. Existing environment
// values win over store values so local overrides keep working.
func LoadSSM(ctx context.Context, pathPrefix string, into map[string]string) error {
	if !strings.HasSuffix(pathPrefix, "/") {
		pathPrefix += "/"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(pathPrefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("fetching parameters under %s: %w", pathPrefix, err)
		}
		for _, param := range page.Parameters {
			name := strings.TrimPrefix(aws.ToString(param.Name), pathPrefix)
			key := strings.ToUpper(strings.ReplaceAll(name, "/", "_"))
			if key == "" {
				continue
			}
			if _, exists := into[key]; exists {
				continue
			}
			into[key] = aws.ToString(param.Value)
		}
	}
	return nil
}
