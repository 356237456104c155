//go:build integration

package objectstore_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/browserfile"
	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/objectstore"
)

func TestIntegrationObjectStore(t *testing.T) {
	ctx := context.Background()
	ls := testutil.StartLocalStack(t)

	raw, err := ls.S3Client(ctx)
	require.NoError(t, err)

	const bucket = "browser-uploads"
	_, err = raw.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	require.NoError(t, err)

	cfg, err := ls.AWSConfig(ctx)
	require.NoError(t, err)
	client, err := objectstore.New(ctx,
		objectstore.WithAWSConfig(&cfg),
		objectstore.WithEndpoint(ls.Endpoint()),
		objectstore.WithForcePathStyle(true),
	)
	require.NoError(t, err)

	gen := testutil.NewTestDataGenerator(70)

	t.Run("stat and read an upload", func(t *testing.T) {
		data := gen.Bytes(64 * 1024)
		require.NoError(t, testutil.PutUpload(ctx, raw, bucket, "u/1/3f9a", "holiday.jpg", "image/jpeg", data))

		f, err := client.Stat(ctx, bucket, "u/1/3f9a")
		require.NoError(t, err)
		assert.Equal(t, "holiday.jpg", f.Name())
		assert.Equal(t, int64(len(data)), f.Size())
		assert.Equal(t, "image/jpeg", f.ContentType())

		got, err := browserfile.ReadAll(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("understated size overflows", func(t *testing.T) {
		data := gen.Bytes(600_000)
		require.NoError(t, testutil.PutUpload(ctx, raw, bucket, "u/1/big", "big.bin", "application/octet-stream", data))

		f, err := client.File(bucket, "u/1/big", gen.Metadata("big.bin", 100))
		require.NoError(t, err)

		_, err = browserfile.ReadAll(ctx, f)
		assert.True(t, bferrors.IsSizeExceeded(err))
	})

	t.Run("missing object", func(t *testing.T) {
		f, err := client.File(bucket, "u/1/missing", gen.Metadata("missing.txt", 1))
		require.NoError(t, err)

		_, err = f.OpenReadStream(ctx)
		assert.True(t, bferrors.IsUnavailable(err))
	})
}
