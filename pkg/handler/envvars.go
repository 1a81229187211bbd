package handler

import "github.com/Netflix/go-env"

// EnvVars has environment variables that can configure ratingcsv
type EnvVars struct {
	LogLevel  string `env:"LOG_LEVEL"`
	SentryDSN string `env:"SENTRY_DSN"`
	SentryEnv string `env:"SENTRY_ENVIRONMENT"`
	AwsRegion string `env:"AWS_REGION"`
}

// BindEnvVars loads environment variables into empty fields of EnvVars.
// A value already set (e.g. by command line option) is kept.
func (x *EnvVars) BindEnvVars() error {
	var src EnvVars
	if _, err := env.UnmarshalFromEnviron(&src); err != nil {
		Logger.WithError(err).Error("Failed UnmarshalFromEviron")
		return err
	}

	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&x.LogLevel, src.LogLevel)
	fill(&x.SentryDSN, src.SentryDSN)
	fill(&x.SentryEnv, src.SentryEnv)
	fill(&x.AwsRegion, src.AwsRegion)

	return nil
}
