// Package s3 provides a sxgraph.Opener reading dump tables from an S3
// bucket, for dumps mirrored to object storage instead of local disk.
package s3

import (
	"compress/gzip"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"

	"github.com/sxgraph/sxgraph"
)

var _ sxgraph.Opener = &Opener{}

// Opener fetches dump tables by object name under a bucket prefix. Missing
// objects surface as os.IsNotExist so the Runner skips them the same way it
// skips absent local files; gzipped objects (<name>.gz) are unwrapped
// transparently.
type Opener struct {
	bucket string
	prefix string

	s3   *s3.S3
	sess *session.Session
}

// NewOpener creates an Opener for the given region, bucket and key prefix.
func NewOpener(region, bucket, prefix string) (*Opener, error) {
	o := &Opener{
		bucket: bucket,
		prefix: prefix,
	}
	var err error
	o.sess, err = session.NewSession(&aws.Config{
		Region: aws.String(region)},
	)
	if err != nil {
		return nil, errors.Wrap(err, "getting aws session")
	}
	o.s3 = s3.New(o.sess)
	return o, nil
}

// ParseURL splits an "s3://bucket/prefix" input location.
func ParseURL(url string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(url, "s3://") {
		return "", "", errors.Errorf("not an s3 url: %q", url)
	}
	rest := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if parts[0] == "" {
		return "", "", errors.Errorf("no bucket in s3 url: %q", url)
	}
	bucket = parts[0]
	if len(parts) == 2 {
		prefix = parts[1]
	}
	return bucket, prefix, nil
}

// Open implements sxgraph.Opener.
func (o *Opener) Open(name string) (io.ReadCloser, error) {
	body, err := o.get(path.Join(o.prefix, name))
	if err == nil {
		return body, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	body, gerr := o.get(path.Join(o.prefix, name) + ".gz")
	if gerr != nil {
		// report the plain object's absence; the .gz was just a fallback
		return nil, err
	}
	gz, gerr := gzip.NewReader(body)
	if gerr != nil {
		body.Close()
		return nil, errors.Wrapf(gerr, "gunzipping %s.gz", name)
	}
	return &gzipReadCloser{gz: gz, body: body}, nil
}

func (o *Opener) get(key string) (io.ReadCloser, error) {
	result, err := o.s3.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, os.ErrNotExist
		}
		return nil, errors.Wrapf(err, "fetching %v", key)
	}
	return result.Body, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	body io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipReadCloser) Close() error {
	err := g.gz.Close()
	if cerr := g.body.Close(); err == nil {
		err = cerr
	}
	return err
}
