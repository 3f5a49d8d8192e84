package downloads

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/referralhub/internal/common"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	listObjects = func(c *s3.Client, ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
		return c.ListObjectsV2(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

type S3Options struct {
	Bucket       string
	Prefix       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	PresignTTL   time.Duration
}

// S3Source lists a bucket prefix and hands out presigned GET URLs.
type S3Source struct {
	client  *s3.Client
	presign *s3.PresignClient
	opts    S3Options
}

// NewS3Source builds the clients. Static credentials are used when an
// access key is set, otherwise the default AWS chain. A base endpoint
// (MinIO and friends) switches to path-style addressing.
func NewS3Source(ctx context.Context, o S3Options) (*S3Source, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	})

	if o.PresignTTL <= 0 {
		o.PresignTTL = 15 * time.Minute
	}

	return &S3Source{client: client, presign: s3.NewPresignClient(client), opts: o}, nil
}

func (s *S3Source) List(ctx context.Context) ([]File, error) {
	files := make([]File, 0)

	in := &s3.ListObjectsV2Input{Bucket: aws.String(s.opts.Bucket)}
	if s.opts.Prefix != "" {
		in.Prefix = aws.String(s.opts.Prefix)
	}

	for {
		out, err := listObjects(s.client, ctx, in)
		if err != nil {
			return nil, fmt.Errorf("s3 list: %w", err)
		}

		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.opts.Prefix)
			if name == "" || strings.HasSuffix(name, "/") {
				continue
			}
			files = append(files, File{
				Name:    name,
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}

		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		in.ContinuationToken = out.NextContinuationToken
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Resolve presigns a GET for name. Whether the object exists is left to S3.
func (s *S3Source) Resolve(ctx context.Context, name string) (Target, error) {
	name, ok := cleanName(name)
	if !ok {
		return Target{}, common.ErrorNotFound
	}

	key := s.opts.Prefix + name
	req, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.opts.PresignTTL))
	if err != nil {
		return Target{}, fmt.Errorf("s3 presign: %w", err)
	}

	return Target{URL: req.URL}, nil
}
