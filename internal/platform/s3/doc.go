// Package s3 lists buckets on S3-compatible object storage for the teardown
// scan.
//
// Linode Object Storage and Hetzner Object Storage both speak the S3 API.
// Buckets are reported as provider.KindBucket resources labelled with the
// bucket name and tagged with the bucket's tag set as "key=value" strings.
package s3
