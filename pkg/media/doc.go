// Package media stores uploaded images on an S3-compatible object host and
// serves them back as public URLs. The API keeps only the URL; the bytes
// never touch PostgreSQL.
package media
