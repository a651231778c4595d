package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hupe1980/groupcv/blobstore"
	"github.com/hupe1980/groupcv/blobstore/minio"
	"github.com/hupe1980/groupcv/blobstore/s3"
	"github.com/hupe1980/groupcv/plan"
	"github.com/spf13/pflag"
)

// storeLocation is a parsed --store value.
type storeLocation struct {
	Scheme   string // file, s3 or minio
	Path     string // file only
	Endpoint string // minio only
	Bucket   string
	Prefix   string
}

// parseStoreURL accepts file://dir (or a plain path), s3://bucket/prefix
// and minio://host[:port]/bucket/prefix.
func parseStoreURL(raw string) (storeLocation, error) {
	if raw == "" {
		return storeLocation{}, errors.New("--store is required")
	}

	if rest, ok := strings.CutPrefix(raw, "file://"); ok {
		if rest == "" {
			return storeLocation{}, fmt.Errorf("invalid store %q: empty path", raw)
		}
		return storeLocation{Scheme: "file", Path: rest}, nil
	}
	if !strings.Contains(raw, "://") {
		return storeLocation{Scheme: "file", Path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return storeLocation{}, fmt.Errorf("invalid store %q: %w", raw, err)
	}
	p := strings.Trim(u.Path, "/")

	switch u.Scheme {
	case "s3":
		if u.Host == "" {
			return storeLocation{}, fmt.Errorf("invalid store %q: missing bucket", raw)
		}
		return storeLocation{Scheme: "s3", Bucket: u.Host, Prefix: p}, nil
	case "minio":
		bucket, prefix, _ := strings.Cut(p, "/")
		if u.Host == "" || bucket == "" {
			return storeLocation{}, fmt.Errorf("invalid store %q: want minio://host/bucket[/prefix]", raw)
		}
		return storeLocation{Scheme: "minio", Endpoint: u.Host, Bucket: bucket, Prefix: prefix}, nil
	default:
		return storeLocation{}, fmt.Errorf("invalid store %q: unsupported scheme %q", raw, u.Scheme)
	}
}

func addStoreFlags(fs *pflag.FlagSet) {
	fs.StringP("store", "s", "", "plan store: file://dir, s3://bucket/prefix or minio://host/bucket/prefix")
	fs.String("region", "", "AWS region for s3 stores and the DynamoDB catalog")
	fs.String("endpoint", "", "custom S3 or DynamoDB endpoint")
	fs.String("minio-access-key", "", "MinIO access key")
	fs.String("minio-secret-key", "", "MinIO secret key")
	fs.Bool("minio-secure", false, "use TLS for MinIO")
	fs.String("ddb-table", "", "DynamoDB table used as plan catalog")
	fs.Int64("cache-bytes", 0, "read cache size in bytes, 0 disables caching")
}

// openStore opens the store named by --store.
func (a *app) openStore(ctx context.Context) (blobstore.Store, error) {
	loc, err := parseStoreURL(a.cfg.Store)
	if err != nil {
		return nil, err
	}

	var st blobstore.Store
	switch loc.Scheme {
	case "file":
		st = blobstore.NewLocalStore(loc.Path)
	case "s3":
		opts := []s3.Option{
			s3.WithPrefix(loc.Prefix),
			s3.WithRegion(a.cfg.Region),
		}
		if a.cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(a.cfg.Endpoint), s3.WithPathStyle(true))
		}
		st, err = s3.New(ctx, loc.Bucket, opts...)
	case "minio":
		st, err = minio.Dial(loc.Endpoint, a.cfg.MinioAccessKey, a.cfg.MinioSecretKey, a.cfg.MinioSecure, loc.Bucket, loc.Prefix)
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if a.cfg.CacheBytes > 0 {
		st = blobstore.NewCachingStore(st, a.cfg.CacheBytes)
	}
	return st, nil
}

// openCatalog returns the DynamoDB catalog named by --ddb-table, or nil.
func (a *app) openCatalog(ctx context.Context) (plan.Catalog, error) {
	if a.cfg.DDBTable == "" {
		return nil, nil
	}

	opts := []s3.Option{s3.WithRegion(a.cfg.Region)}
	if a.cfg.Endpoint != "" {
		opts = append(opts, s3.WithEndpoint(a.cfg.Endpoint))
	}
	c, err := s3.NewDefaultCatalog(ctx, a.cfg.DDBTable, opts...)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return c, nil
}
