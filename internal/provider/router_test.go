package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_FirstRegisteredWins(t *testing.T) {
	t.Parallel()
	primary := &stubResources{name: "linode", kinds: []Kind{KindLoadBalancer, KindVolume}}
	buckets := &stubResources{name: "s3", kinds: []Kind{KindBucket, KindVolume}}

	r := NewRouter(primary, nil)
	r.Register(buckets)

	assert.Equal(t, []Kind{KindLoadBalancer, KindVolume, KindBucket}, r.Kinds())

	ctx := context.Background()
	vols, err := r.ListResources(ctx, KindVolume)
	require.NoError(t, err)
	require.Len(t, vols, 1)
	assert.Equal(t, "linode", vols[0].ID)

	bs, err := r.ListResources(ctx, KindBucket)
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindVolume}, primary.listed)
	assert.Equal(t, []Kind{KindBucket}, buckets.listed)

	require.NoError(t, r.DeleteResource(ctx, bs[0]))
	require.NoError(t, r.DeleteResource(ctx, Resource{Kind: KindLoadBalancer, ID: "3"}))
	require.Len(t, buckets.deleted, 1)
	assert.Equal(t, "s3", buckets.deleted[0].ID)
	require.Len(t, primary.deleted, 1)
	assert.Equal(t, "3", primary.deleted[0].ID)
}

func TestRouter_UnroutedKind(t *testing.T) {
	t.Parallel()
	r := NewRouter(&stubResources{name: "linode", kinds: []Kind{KindLoadBalancer}})

	_, err := r.ListResources(context.Background(), KindDNSRecord)
	assert.ErrorContains(t, err, "no client lists dns-record resources")

	err = r.DeleteResource(context.Background(), Resource{Kind: KindBucket, ID: "b"})
	assert.ErrorContains(t, err, "no client deletes bucket resources")
}
