package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// ObjectGetter is the subset of *s3.Client used by S3Object.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Object returns a source polling bucket/key every interval and decoding
// the object into T.
//
// The object is fetched on Subscribe and then once per interval. Fetches
// returning the same ETag (or the same bytes when the store sends no ETag)
// are skipped.
func S3Object[T any](client ObjectGetter, bucket, key string, every time.Duration, opts ...Option) reactive.Source[T] {
	if every <= 0 {
		every = time.Minute
	}
	o := applyOptions(opts)
	target := bucket + "/" + key
	return reactive.SourceFunc[T](func(next func(T)) reactive.Subscription {
		p := newProducer("s3", target, o)
		p.interval = every
		return p.start(func(ctx context.Context) {
			timer := o.clock.NewTimer(every)
			defer timer.Stop()

			var (
				lastTag  string
				lastBody []byte
			)
			poll := func() bool {
				body, tag, err := getObject(ctx, client, bucket, key)
				if err != nil {
					if ctx.Err() == nil {
						p.fail(ctx, SourceError, err)
					}
					return ctx.Err() == nil
				}
				if tag != "" && tag == lastTag {
					return true
				}
				if tag == "" && lastBody != nil && bytes.Equal(body, lastBody) {
					return true
				}
				lastTag, lastBody = tag, body

				v, err := decode[T](body, o.format)
				if err != nil {
					p.fail(ctx, SourceDecodeFailed, err)
					return true
				}
				return deliver(ctx, p, next, v)
			}

			if !poll() {
				return
			}
			for {
				select {
				case <-ctx.Done():
					return
				case <-timer.C():
				}
				timer.Reset(every)
				if !poll() {
					return
				}
			}
		})
	})
}

func getObject(ctx context.Context, client ObjectGetter, bucket, key string) ([]byte, string, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	return body, aws.ToString(out.ETag), nil
}
