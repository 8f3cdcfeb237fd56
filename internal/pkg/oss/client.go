package oss

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/inkwell-ai/inkwell-server/config"
)

const (
	uploadMaxRetries = 3
	uploadRetryDelay = 2 * time.Second
)

type Client struct {
	client     *oss.Client
	bucket     *oss.Bucket
	bucketName string
	cdnDomain  string
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &Client{
		client:     client,
		bucket:     bucket,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
	}, nil
}

// UploadImage 上传生成的图片，key 全新生成保证不重复
func (c *Client) UploadImage(userID int64, seq int, data []byte, ext string) (string, error) {
	objectKey := fmt.Sprintf("images/%d/%d_%d%s", userID, time.Now().UnixNano(), seq, ext)

	contentType := getContentType(ext)
	err := c.bucket.PutObject(objectKey, bytes.NewReader(data), oss.ContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return c.GetURL(objectKey), nil
}

// UploadImageWithRetry 带重试的图片上传
func (c *Client) UploadImageWithRetry(userID int64, seq int, data []byte, ext string) (string, error) {
	var lastErr error
	for i := 0; i < uploadMaxRetries; i++ {
		url, err := c.UploadImage(userID, seq, data, ext)
		if err == nil {
			return url, nil
		}
		lastErr = err
		time.Sleep(uploadRetryDelay)
	}
	return "", lastErr
}

// GetURL 获取文件访问 URL
func (c *Client) GetURL(objectKey string) string {
	if c.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", c.cdnDomain, objectKey)
	}
	return fmt.Sprintf("https://%s.%s/%s", c.bucketName, c.client.Config.Endpoint, objectKey)
}

// getContentType 根据扩展名获取 Content-Type
func getContentType(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
