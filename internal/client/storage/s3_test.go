package storage

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects  map[string][]byte
	pageSize int
	putErr   error
	listErr  error
	deletes  []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, pageSize: 2}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(b)))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *in.Key)
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := start + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func testS3Config() S3Config {
	return S3Config{
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "vault",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000/",
	}
}

func TestS3Backend_PutGetDeleteList(t *testing.T) {
	api := newFakeS3()
	api.objects["users/OTHER/x"] = []byte("not mine")
	b := newS3Backend(api, nil, testS3Config(), "ST1")
	ctx := context.Background()

	url, err := b.Put(ctx, "docs/a.txt", []byte("A"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/vault/users/ST1/docs/a.txt", url)
	assert.Equal(t, []byte("A"), api.objects["users/ST1/docs/a.txt"])

	for _, p := range []string{"b", "c", ".private/metadata.json"} {
		_, err := b.Put(ctx, p, []byte(p))
		require.NoError(t, err)
	}

	got, err := b.Get(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), got)

	paths, err := b.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{".private/metadata.json", "b", "c", "docs/a.txt"}, paths)

	require.NoError(t, b.Delete(ctx, "b"))
	assert.Equal(t, []string{"users/ST1/b"}, api.deletes)

	_, err = b.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestS3Backend_Errors(t *testing.T) {
	api := newFakeS3()
	api.putErr = errors.New("denied")
	api.listErr = errors.New("list denied")
	b := newS3Backend(api, nil, testS3Config(), "ST1")

	_, err := b.Put(context.Background(), "a", []byte("x"))
	assert.EqualError(t, err, "denied")

	_, err = b.List(context.Background())
	assert.EqualError(t, err, "list denied")
}

func TestS3Backend_ObjectURL_AWS(t *testing.T) {
	cfg := testS3Config()
	cfg.Endpoint = ""
	b := newS3Backend(newFakeS3(), nil, cfg, "ST1")

	assert.Equal(t, "https://vault.s3.us-east-1.amazonaws.com/users/ST1/k", b.ObjectURL("users/ST1/k"))
}

func TestS3Backend_Presign(t *testing.T) {
	orig := presignGetObject
	t.Cleanup(func() { presignGetObject = orig })

	var gotKey string
	var gotExpires time.Duration
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotKey = *in.Key
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		gotExpires = po.Expires
		return &v4.PresignedHTTPRequest{URL: "https://signed/" + gotKey}, nil
	}

	st := New(newS3Backend(newFakeS3(), nil, testS3Config(), "ST1"), nil)
	url, err := st.Presign(context.Background(), "a.txt", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://signed/users/ST1/a.txt", url)
	assert.Equal(t, "users/ST1/a.txt", gotKey)
	assert.Equal(t, 10*time.Minute, gotExpires)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign boom")
	}
	_, err = st.Presign(context.Background(), "a.txt", time.Minute)
	assert.EqualError(t, err, "presign boom")
}

func TestNewS3Backend_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	b, err := NewS3Backend(context.Background(), testS3Config(), "ST1")
	require.NoError(t, err)
	require.NotNil(t, b)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000/", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err = NewS3Backend(context.Background(), testS3Config(), "ST1")
	assert.ErrorContains(t, err, "no config")

	_, err = NewS3Backend(context.Background(), testS3Config(), "")
	assert.Error(t, err)
}
