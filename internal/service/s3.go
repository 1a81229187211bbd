package service

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/m-mizutani/ratingcsv/internal"
	"github.com/m-mizutani/ratingcsv/internal/adaptor"
	"github.com/m-mizutani/ratingcsv/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// S3Service is accessor to S3
type S3Service struct {
	newS3 adaptor.S3ClientFactory
}

// NewS3Service is constructor of S3Service
func NewS3Service(newS3 adaptor.S3ClientFactory) *S3Service {
	return &S3Service{
		newS3: newS3,
	}
}

// UploadFileToS3 upload a specified local file to S3
func (x *S3Service) UploadFileToS3(filePath string, dst models.S3Object) error {
	fd, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "Fail to open a file: %s", filePath)
	}
	defer fd.Close()

	client := x.newS3(dst.Region)
	input := &s3.PutObjectInput{
		Body:        fd,
		Bucket:      aws.String(dst.Bucket),
		Key:         aws.String(dst.Key),
		ContentType: aws.String(contentType(filePath)),
	}

	resp, err := client.PutObject(input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			return errors.Wrapf(aerr, "Fail to upload a file in AWS (%s): %s", aerr.Code(), dst.Path())
		}
		return errors.Wrapf(err, "Fail to upload a file: %s", dst.Path())
	}

	logger.WithFields(logrus.Fields{
		"resp":   resp,
		"bucket": dst.Bucket,
		"key":    dst.Key,
	}).Debug("Uploaded a file")

	return nil
}

func contentType(filePath string) string {
	switch filepath.Ext(filePath) {
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// DownloadS3Object reads whole body of a remote object.
func (x *S3Service) DownloadS3Object(obj models.S3Object) ([]byte, error) {
	client := x.newS3(obj.Region)
	resp, err := client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to get object: %s", obj.Path())
	}
	defer resp.Body.Close()

	raw, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to read object body: %s", obj.Path())
	}

	return raw, nil
}
