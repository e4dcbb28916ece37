package delivery

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/domain"
)

// S3Config datos de conexión a un bucket S3 o compatible (R2, MinIO).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // vacío = AWS
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string // prefijo de clave, p. ej. "invoices/"
}

// Enabled indica si hay bucket configurado.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// S3PutObjectAPI subconjunto del cliente S3 que se usa. Permite inyectar un fake en tests.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client crea el cliente S3. Con credenciales estáticas las usa;
// si no, cae en la cadena por defecto del SDK (env, perfil, rol).
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: bucket de archivo", domain.ErrNotConfigured)
	}
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("delivery: configurar cliente S3: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

// S3Deliverer sube el artefacto como objeto.
type S3Deliverer struct {
	client S3PutObjectAPI
	bucket string
	prefix string
}

// NewS3Deliverer construye el deliverer sobre un cliente ya configurado.
func NewS3Deliverer(client S3PutObjectAPI, bucket, prefix string) *S3Deliverer {
	return &S3Deliverer{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key devuelve la clave de objeto para un nombre de archivo.
func (d *S3Deliverer) Key(filename string) string {
	if d.prefix == "" {
		return filename
	}
	return path.Join(d.prefix, filename)
}

// Deliver implementa billing.ArtifactDeliverer.
func (d *S3Deliverer) Deliver(ctx context.Context, artifact billing.Artifact, filename string) (billing.Receipt, error) {
	key := d.Key(filename)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(artifact.Content),
		ContentType:   aws.String(artifact.ContentType),
		ContentLength: aws.Int64(int64(len(artifact.Content))),
	}
	if artifact.Digest != "" {
		input.Metadata = map[string]string{"content-digest": artifact.Digest}
	}
	if _, err := d.client.PutObject(ctx, input); err != nil {
		return billing.Receipt{}, fmt.Errorf("delivery: subir s3://%s/%s: %w", d.bucket, key, err)
	}
	return billing.Receipt{
		Location: fmt.Sprintf("s3://%s/%s", d.bucket, key),
		Size:     len(artifact.Content),
	}, nil
}
