package input

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 serves canned listing pages and object bodies, recording traffic.
type fakeS3 struct {
	pages   []*s3.ListObjectsV2Output
	objects map[string]string
	listErr error
	getErr  error

	listCalls []s3.ListObjectsV2Input
	getKeys   []string
}

func (f *fakeS3) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listCalls = append(f.listCalls, *params)
	if f.listErr != nil {
		return nil, f.listErr
	}
	page := len(f.listCalls) - 1
	if page >= len(f.pages) {
		return &s3.ListObjectsV2Output{}, nil
	}
	return f.pages[page], nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Key)
	f.getKeys = append(f.getKeys, key)
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func listPage(truncated bool, nextToken string, keys ...string) *s3.ListObjectsV2Output {
	out := &s3.ListObjectsV2Output{
		IsTruncated: aws.Bool(truncated),
	}
	if nextToken != "" {
		out.NextContinuationToken = aws.String(nextToken)
	}
	for _, key := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	return out
}

func newTestS3Source(client S3API, prefix string) *S3Source {
	return NewS3SourceWithClient(client, "exports", prefix, discardLogger())
}

func TestS3SourceRows_PaginatesAndOrders(t *testing.T) {
	// Keys arrive out of order across a truncated listing.
	fake := &fakeS3{
		pages: []*s3.ListObjectsV2Output{
			listPage(true, "token-1", "comments/b.csv"),
			listPage(false, "", "comments/a.csv"),
		},
		objects: map[string]string{
			"comments/a.csv": "a1,2024-01-01\n",
			"comments/b.csv": "b1,2024-02-01\nb2,2024-02-02\n",
		},
	}

	source := newTestS3Source(fake, "comments/")
	rows, err := source.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error: %v", err)
	}

	if len(fake.listCalls) != 2 {
		t.Fatalf("list calls = %d, want 2 (one per page)", len(fake.listCalls))
	}
	if got := aws.ToString(fake.listCalls[1].ContinuationToken); got != "token-1" {
		t.Errorf("second list call token = %q, want token-1", got)
	}
	if got := aws.ToString(fake.listCalls[0].Prefix); got != "comments/" {
		t.Errorf("list prefix = %q, want comments/", got)
	}

	// Objects must be fetched in lexicographic key order, a.csv first.
	wantKeys := []string{"comments/a.csv", "comments/b.csv"}
	if len(fake.getKeys) != len(wantKeys) {
		t.Fatalf("get calls = %v, want %v", fake.getKeys, wantKeys)
	}
	for i, key := range wantKeys {
		if fake.getKeys[i] != key {
			t.Errorf("get call %d = %q, want %q", i, fake.getKeys[i], key)
		}
	}

	wantRefs := []string{"a1", "b1", "b2"}
	if len(rows) != len(wantRefs) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantRefs))
	}
	for i, ref := range wantRefs {
		if rows[i].Reference() != ref {
			t.Errorf("row %d: got reference %q, want %q", i, rows[i].Reference(), ref)
		}
	}
}

func TestS3SourceRows_FiltersNonCSVKeys(t *testing.T) {
	fake := &fakeS3{
		pages: []*s3.ListObjectsV2Output{
			listPage(false, "", "data.csv", "readme.txt", "archive.csv.gz", "UPPER.CSV"),
		},
		objects: map[string]string{
			"data.csv":  "a,b\n",
			"UPPER.CSV": "c,d\n",
		},
	}

	source := newTestS3Source(fake, "")
	rows, err := source.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error: %v", err)
	}

	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2 (only .csv objects)", len(rows))
	}
	for _, key := range fake.getKeys {
		if !strings.HasSuffix(strings.ToLower(key), ".csv") {
			t.Errorf("fetched non-CSV key %q", key)
		}
	}
}

func TestS3SourceRows_NoCSVObjects(t *testing.T) {
	fake := &fakeS3{
		pages: []*s3.ListObjectsV2Output{
			listPage(false, "", "notes.txt"),
		},
	}

	source := newTestS3Source(fake, "comments/")
	if _, err := source.Rows(context.Background()); err == nil {
		t.Fatal("expected error when no .csv objects match")
	}
}

func TestS3SourceRows_ListError(t *testing.T) {
	fake := &fakeS3{listErr: errors.New("access denied")}

	source := newTestS3Source(fake, "")
	if _, err := source.Rows(context.Background()); err == nil {
		t.Fatal("expected listing error to surface")
	}
}

func TestS3SourceRows_GetError(t *testing.T) {
	fake := &fakeS3{
		pages:  []*s3.ListObjectsV2Output{listPage(false, "", "data.csv")},
		getErr: errors.New("throttled"),
	}

	source := newTestS3Source(fake, "")
	if _, err := source.Rows(context.Background()); err == nil {
		t.Fatal("expected fetch error to surface")
	}
}
