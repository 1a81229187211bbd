package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// S3Object is location of an object on S3
type S3Object struct {
	Region string `json:"region"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// NewS3Object is constructor of S3Object
func NewS3Object(region, bucket, key string) S3Object {
	return S3Object{
		Region: region,
		Bucket: bucket,
		Key:    key,
	}
}

// ParseS3URL converts "s3://bucket/path/to/key" to S3Object. A key ending with
// "/" is treated as a prefix and fileName is appended.
func ParseS3URL(region, url, fileName string) (*S3Object, error) {
	if !strings.HasPrefix(url, "s3://") {
		return nil, errors.Errorf("Invalid S3 URL (s3:// is required): %s", url)
	}

	arr := strings.SplitN(url[len("s3://"):], "/", 2)
	if arr[0] == "" {
		return nil, errors.Errorf("Invalid S3 URL (no bucket): %s", url)
	}

	obj := NewS3Object(region, arr[0], "")
	if len(arr) == 2 {
		obj.Key = arr[1]
	}

	if obj.Key == "" || strings.HasSuffix(obj.Key, "/") {
		obj.Key += fileName
	}

	return &obj, nil
}

// Path returns s3:// style URL of the object
func (x S3Object) Path() string {
	return fmt.Sprintf("s3://%s/%s", x.Bucket, x.Key)
}
