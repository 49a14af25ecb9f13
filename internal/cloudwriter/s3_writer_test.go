package cloudwriter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	bucket, key string
	body        []byte
	calls       int
	err         error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = *params.Bucket
	f.key = *params.Key
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	client := &fakeS3{}
	factory := &S3WriterFactory{client: client}

	w, err := factory.NewWriter("runs", "flights/run=abc/data.csv")
	require.NoError(t, err)

	_, err = w.Write([]byte("a,b\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, client.calls, "nothing is uploaded before Close")

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "runs", client.bucket)
	assert.Equal(t, "flights/run=abc/data.csv", client.key)
	assert.Equal(t, "a,b\n1,2\n", string(client.body))

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestS3WriterPropagatesUploadError(t *testing.T) {
	factory := &S3WriterFactory{client: &fakeS3{err: errors.New("access denied")}}

	w, err := factory.NewWriter("runs", "x")
	require.NoError(t, err)

	err = w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3WriterRequiresBucket(t *testing.T) {
	factory := &S3WriterFactory{client: &fakeS3{}}
	_, err := factory.NewWriter("", "x")
	assert.Error(t, err)
}
