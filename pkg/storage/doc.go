// Package storage serves mail templates and attachments from S3-compatible
// object storage.
//
// S3Files implements mailer.Files, so a mail kit can probe and render
// templates stored in a bucket and attach objects lazily at delivery time:
//
//	files, err := storage.New(ctx, storage.Config{
//		Bucket: "acme-mail",
//		Prefix: "production",
//		Region: "eu-west-1",
//	})
//	if err != nil {
//		return err
//	}
//	kit, err := mailkit.New(mailkit.WithFiles(files))
//
// Paths are slash-separated and relative to Prefix. A missing object yields an
// error matching both ErrNotFound and fs.ErrNotExist; access errors match
// ErrAccessDenied and fs.ErrPermission.
//
// MinIO and other S3-compatible services are supported via Endpoint and PathStyle.
package storage
