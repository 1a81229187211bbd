package handler

import (
	"github.com/m-mizutani/ratingcsv/internal/adaptor"
	"github.com/m-mizutani/ratingcsv/internal/service"
	"github.com/m-mizutani/ratingcsv/pkg/converter"
	"github.com/m-mizutani/ratingcsv/pkg/models"
)

// Arguments has environment variables, command options and adaptors
type Arguments struct {
	EnvVars

	SourceDir  string
	DistDir    string
	SchemaFile string
	LogFormat  string

	NewS3      adaptor.S3ClientFactory `json:"-"`
	NewEncoder adaptor.EncoderFactory  `json:"-"`
	NewDecoder adaptor.DecoderFactory  `json:"-"`
}

// S3Service provides service.S3Service with S3 adaptor
func (x *Arguments) S3Service() *service.S3Service {
	return service.NewS3Service(x.newS3())
}

// SchemaRules returns rules loaded from SchemaFile, or default rules if SchemaFile is empty.
func (x *Arguments) SchemaRules() (models.SchemaRules, error) {
	if x.SchemaFile == "" {
		return models.DefaultSchemaRules(), nil
	}
	return models.LoadSchemaRules(x.SchemaFile)
}

// StreamFactory chooses token buffer of converter. spool=true keeps tokens
// in a temporary file instead of memory.
func (x *Arguments) StreamFactory(spool bool) converter.StreamFactory {
	if !spool {
		return converter.NewMemoryStream
	}
	return converter.NewSpoolStreamFactory("", x.newEncoder(), x.newDecoder())
}

// Converter builds converter.Converter from schema rules and stream option.
func (x *Arguments) Converter(spool bool) (*converter.Converter, error) {
	rules, err := x.SchemaRules()
	if err != nil {
		return nil, err
	}
	return converter.NewConverter(rules, x.StreamFactory(spool)), nil
}

func (x *Arguments) newS3() adaptor.S3ClientFactory {
	if x.NewS3 != nil {
		return x.NewS3
	} else {
		return adaptor.NewS3Client
	}
}
func (x *Arguments) newEncoder() adaptor.EncoderFactory {
	if x.NewEncoder != nil {
		return x.NewEncoder
	} else {
		return adaptor.NewMsgpackEncoder
	}
}
func (x *Arguments) newDecoder() adaptor.DecoderFactory {
	if x.NewDecoder != nil {
		return x.NewDecoder
	} else {
		return adaptor.NewMsgpackDecoder
	}
}
