package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techelevate/platform/internal/server/identity"
)

func testConfig() S3Config {
	return S3Config{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "techelevate",
	}
}

func stubClients(t *testing.T) {
	t.Helper()
	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
}

func TestNewS3Presigner_DefaultExpiry(t *testing.T) {
	p := NewS3Presigner(testConfig())
	assert.Equal(t, DefaultExpiry, p.cfg.Expiry)

	cfg := testConfig()
	cfg.Expiry = time.Minute
	assert.Equal(t, time.Minute, NewS3Presigner(cfg).cfg.Expiry)
}

func TestProfilePictureKey(t *testing.T) {
	a := ProfilePictureKey(identity.Administrator(7))
	m := ProfilePictureKey(identity.Member(7))

	assert.True(t, strings.HasPrefix(a, "profile-pictures/administrator/7/"))
	assert.True(t, strings.HasPrefix(m, "profile-pictures/member/7/"))
	assert.NotEqual(t, ProfilePictureKey(identity.Member(7)), m)
}

func TestClient_AppliesConfig(t *testing.T) {
	stubClients(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	pc, err := NewS3Presigner(testConfig()).client(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pc)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestClient_LoadError(t *testing.T) {
	stubClients(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Presigner(testConfig()).PresignPut(context.Background(), "k")
	assert.EqualError(t, err, "load-fail")

	_, err = NewS3Presigner(testConfig()).PresignGet(context.Background(), "k")
	assert.EqualError(t, err, "load-fail")
}

func TestPresignPut(t *testing.T) {
	stubClients(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "techelevate", aws.ToString(in.Bucket))
		assert.Equal(t, "profile-pictures/member/1/x", aws.ToString(in.Key))
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, DefaultExpiry, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://signed/put"}, nil
	}

	url, err := NewS3Presigner(testConfig()).PresignPut(context.Background(), "profile-pictures/member/1/x")
	require.NoError(t, err)
	assert.Equal(t, "http://signed/put", url)
}

func TestPresignPut_Error(t *testing.T) {
	stubClients(t)
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-put-fail")
	}

	_, err := NewS3Presigner(testConfig()).PresignPut(context.Background(), "k")
	assert.EqualError(t, err, "presign-put-fail")
}

func TestPresignGet(t *testing.T) {
	stubClients(t)
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "k", aws.ToString(in.Key))
		return &v4.PresignedHTTPRequest{URL: "http://signed/get"}, nil
	}

	url, err := NewS3Presigner(testConfig()).PresignGet(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "http://signed/get", url)
}
