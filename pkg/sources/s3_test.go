package sources

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/zoobzio/clockz"
)

type fakeObject struct {
	body string
	etag string
	err  error
}

// fakeObjects returns objects in order, repeating the last one.
type fakeObjects struct {
	mu      sync.Mutex
	objects []fakeObject
	calls   int
	bucket  string
	key     string
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	i := f.calls
	if i >= len(f.objects) {
		i = len(f.objects) - 1
	}
	f.calls++

	obj := f.objects[i]
	if obj.err != nil {
		return nil, obj.err
	}
	out := &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(obj.body))}
	if obj.etag != "" {
		out.ETag = aws.String(obj.etag)
	}
	return out, nil
}

func (f *fakeObjects) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestS3ObjectFetchesImmediately(t *testing.T) {
	client := &fakeObjects{objects: []fakeObject{{body: `{"name":"one"}`, etag: "a"}}}
	clock := clockz.NewFakeClock()

	out := make(chan settings, 8)
	sub := S3Object[settings](client, "config", "flags.json", time.Minute, WithClock(clock)).
		Subscribe(func(s settings) { out <- s })
	defer sub.Unsubscribe()

	if got := receive(t, out); got.Name != "one" {
		t.Errorf("value = %+v", got)
	}

	client.mu.Lock()
	bucket, key := client.bucket, client.key
	client.mu.Unlock()
	if bucket != "config" || key != "flags.json" {
		t.Errorf("fetched %s/%s", bucket, key)
	}
}

func TestS3ObjectSkipsUnchangedETag(t *testing.T) {
	client := &fakeObjects{objects: []fakeObject{
		{body: `{"name":"one"}`, etag: "a"},
		{body: `{"name":"one"}`, etag: "a"},
		{body: `{"name":"two"}`, etag: "b"},
	}}
	clock := clockz.NewFakeClock()

	out := make(chan settings, 8)
	sub := S3Object[settings](client, "config", "flags.json", time.Minute, WithClock(clock)).
		Subscribe(func(s settings) { out <- s })
	defer sub.Unsubscribe()

	receive(t, out)
	got := advanceUntil(t, clock, time.Minute, out)
	if got.Name != "two" {
		t.Errorf("second value = %+v, want two", got)
	}
	if calls := client.Calls(); calls < 3 {
		t.Errorf("calls = %d, want at least 3", calls)
	}
}

func TestS3ObjectSkipsUnchangedBodyWithoutETag(t *testing.T) {
	client := &fakeObjects{objects: []fakeObject{
		{body: "name: one\n"},
		{body: "name: one\n"},
		{body: "name: two\n"},
	}}
	clock := clockz.NewFakeClock()

	out := make(chan settings, 8)
	sub := S3Object[settings](client, "b", "k", time.Second, WithClock(clock)).
		Subscribe(func(s settings) { out <- s })
	defer sub.Unsubscribe()

	receive(t, out)
	if got := advanceUntil(t, clock, time.Second, out); got.Name != "two" {
		t.Errorf("second value = %+v, want two", got)
	}
}

func TestS3ObjectReportsErrors(t *testing.T) {
	client := &fakeObjects{objects: []fakeObject{
		{err: errors.New("access denied")},
		{body: `{"level":1}`, etag: "a"},
		{body: `{"name":"ok"}`, etag: "b"},
	}}
	clock := clockz.NewFakeClock()

	onError, errs := errorSink()
	out := make(chan settings, 8)
	sub := S3Object[settings](client, "b", "k", time.Second, WithClock(clock), onError).
		Subscribe(func(s settings) { out <- s })
	defer sub.Unsubscribe()

	if err := receive(t, errs); !strings.Contains(err.Error(), "get s3://b/k") {
		t.Errorf("error = %v", err)
	}
	if got := advanceUntil(t, clock, time.Second, out); got.Name != "ok" {
		t.Errorf("value = %+v", got)
	}
	if err := receive(t, errs); !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("error = %v", err)
	}
}
