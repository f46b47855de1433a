package s3

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/schemaitat/lab/internal/provider"
)

var _ provider.ResourceClient = (*Client)(nil)

// Kinds implements provider.ResourceClient.
func (c *Client) Kinds() []provider.Kind {
	return []provider.Kind{provider.KindBucket}
}

// ListResources lists every bucket the credentials can see, with its tags.
func (c *Client) ListResources(ctx context.Context, kind provider.Kind) ([]provider.Resource, error) {
	if kind != provider.KindBucket {
		return nil, fmt.Errorf("s3: unsupported resource kind %q", kind)
	}

	var out []provider.Resource
	p := s3.NewListBucketsPaginator(c.s3, &s3.ListBucketsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, wrapError("list", "", err)
		}
		for _, b := range page.Buckets {
			name := aws.ToString(b.Name)
			tags, err := c.bucketTags(ctx, name)
			if err != nil {
				return nil, err
			}
			region := aws.ToString(b.BucketRegion)
			if region == "" {
				region = c.region
			}
			out = append(out, provider.Resource{
				Kind:   provider.KindBucket,
				ID:     name,
				Label:  name,
				Tags:   tags,
				Region: region,
			})
		}
	}
	return out, nil
}

// DeleteResource deletes a bucket. Only empty buckets can be deleted; the
// provider rejects the rest with BucketNotEmpty.
func (c *Client) DeleteResource(ctx context.Context, r provider.Resource) error {
	if r.Kind != provider.KindBucket {
		return fmt.Errorf("s3: unsupported resource kind %q", r.Kind)
	}
	_, err := c.s3.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(r.ID),
	})
	return wrapError("delete", r.ID, err)
}

func (c *Client) bucketTags(ctx context.Context, bucket string) ([]string, error) {
	out, err := c.s3.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if isNoTagSet(err) {
			return nil, nil
		}
		return nil, wrapError("get tags", bucket, err)
	}

	tags := make([]string, 0, len(out.TagSet))
	for _, t := range out.TagSet {
		tags = append(tags, aws.ToString(t.Key)+"="+aws.ToString(t.Value))
	}
	sort.Strings(tags)
	return tags, nil
}
