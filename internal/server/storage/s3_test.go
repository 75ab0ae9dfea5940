package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		S3Region:           "us-east-1",
		S3RootUser:         "minioadmin",
		S3RootPassword:     "minioadmin",
		S3BaseEndpoint:     "http://127.0.0.1:9000",
		S3Bucket:           "pictures",
		PictureURLValidity: time.Hour,
	}
}

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := putObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		putObject = origPut
		presignGetObject = origGet
	})
}

func stubClients(t *testing.T) {
	t.Helper()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestNewS3Store_AppliesConfig(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
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
		require.NotNil(t, c)
		return &s3.PresignClient{}
	}

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, st)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "pictures", st.bucket)
}

func TestNewS3Store_LoadConfigError(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Store(context.Background(), testConfig())
	assert.ErrorContains(t, err, "no config")
}

func TestPut(t *testing.T) {
	restoreSeams(t)
	stubClients(t)

	var got *s3.PutObjectInput
	var body []byte
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		got = in
		body, _ = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, nil
	}

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	err = st.Put(context.Background(), "users/u1/pictures/p.png", "image/png", bytes.NewReader([]byte("png")), 3)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "pictures", aws.ToString(got.Bucket))
	assert.Equal(t, "users/u1/pictures/p.png", aws.ToString(got.Key))
	assert.Equal(t, "image/png", aws.ToString(got.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(got.ContentLength))
	assert.Equal(t, []byte("png"), body)
}

func TestPut_Error(t *testing.T) {
	restoreSeams(t)
	stubClients(t)

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket missing")
	}

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	err = st.Put(context.Background(), "k", "image/png", bytes.NewReader(nil), 0)
	assert.ErrorContains(t, err, "bucket missing")
}

func TestPresignGet(t *testing.T) {
	restoreSeams(t)
	stubClients(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, time.Hour, po.Expires)
		assert.Equal(t, "k1", aws.ToString(in.Key))
		return &v4.PresignedHTTPRequest{URL: "http://minio/pictures/k1?sig"}, nil
	}

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	url, err := st.PresignGet(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "http://minio/pictures/k1?sig", url)
}

func TestPresignGet_Error(t *testing.T) {
	restoreSeams(t)
	stubClients(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	_, err = st.PresignGet(context.Background(), "k1")
	assert.ErrorContains(t, err, "sign failed")
}

func TestPut_PlainHTTPEndpoint(t *testing.T) {
	restoreSeams(t)

	var (
		mu       sync.Mutex
		gotPath  string
		gotBody  []byte
		gotCType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath, gotBody, gotCType = r.URL.Path, body, r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.S3BaseEndpoint = srv.URL

	st, err := NewS3Store(context.Background(), cfg)
	require.NoError(t, err)

	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 2048)...)
	err = st.Put(context.Background(), "users/u1/pictures/p.png", "image/png", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/pictures/users/u1/pictures/p.png", gotPath)
	assert.Equal(t, "image/png", gotCType)
	assert.Equal(t, data, gotBody)
}
