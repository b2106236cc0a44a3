package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"tubeexpert/internal/seo"
)

var ErrVideoNotFound = errors.New("video not found")

// Client applies generated packages to existing videos.
type Client struct {
	auth *Auth
	opts []option.ClientOption
}

func NewClient(auth *Auth, opts ...option.ClientOption) *Client {
	return &Client{auth: auth, opts: opts}
}

func (c *Client) Auth() *Auth {
	return c.auth
}

func (c *Client) service(ctx context.Context) (*yt.Service, error) {
	httpClient, err := c.auth.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("get auth client: %w", err)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return svc, nil
}

// ApplyMetadata replaces the title, description and tags of videoID. The
// category and other snippet fields are kept.
func (c *Client) ApplyMetadata(ctx context.Context, videoID string, pkg *seo.Package) (Metadata, error) {
	if pkg == nil {
		return Metadata{}, seo.ErrMalformedPackage
	}

	svc, err := c.service(ctx)
	if err != nil {
		return Metadata{}, err
	}

	resp, err := svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return Metadata{}, fmt.Errorf("fetch video: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return Metadata{}, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	meta := MetadataFromPackage(pkg)
	snippet := resp.Items[0].Snippet
	snippet.Title = meta.Title
	snippet.Description = meta.Description
	snippet.Tags = meta.Tags

	_, err = svc.Videos.Update([]string{"snippet"}, &yt.Video{Id: videoID, Snippet: snippet}).Context(ctx).Do()
	if err != nil {
		return Metadata{}, fmt.Errorf("update video: %w", err)
	}
	return meta, nil
}

// SetThumbnail uploads image as the custom thumbnail of videoID.
func (c *Client) SetThumbnail(ctx context.Context, videoID, mimeType string, image []byte) error {
	if len(image) == 0 {
		return fmt.Errorf("set thumbnail: empty image")
	}

	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	_, err = svc.Thumbnails.Set(videoID).
		Media(bytes.NewReader(image), googleapi.ContentType(mimeType)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}
	return nil
}
