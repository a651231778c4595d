// Package s3 provides an S3 implementation of the blobstore.Store interface
// and a DynamoDB-backed plan catalog.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("plans/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	w := plan.NewWriter(store)
//
// # Features
//
//   - Multipart uploads for large fold blobs
//   - Conditional creates (If-None-Match) for write-once manifests
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//
// # Catalog
//
// Catalog records saved plans in a DynamoDB table with partition key "name"
// (string). Registration uses a conditional write, so two writers can never
// claim the same plan name:
//
//	aws dynamodb create-table \
//	  --table-name groupcv-plans \
//	  --attribute-definitions AttributeName=name,AttributeType=S \
//	  --key-schema AttributeName=name,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
package s3
