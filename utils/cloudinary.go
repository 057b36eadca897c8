package utils

import (
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/sirupsen/logrus"
)

const assetFolder = "seopilot/marketing"

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudinaryURL string) (*CloudinaryService, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL environment variable is not set")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryService{cld: cld}, nil
}

// ImageURL builds a delivery URL for a marketing image with the given
// transformation, e.g. "c_fill,w_1200,h_630".
func (s *CloudinaryService) ImageURL(publicID, transformation string) (string, error) {
	img, err := s.cld.Image(assetFolder + "/" + publicID)
	if err != nil {
		return "", fmt.Errorf("failed to build image %s: %w", publicID, err)
	}
	img.Transformation = transformation

	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to build image url %s: %w", publicID, err)
	}
	return url, nil
}

// Assets are the image URLs used by the marketing pages.
type Assets struct {
	HeroImage string
	OGImage   string
}

// DefaultAssets points at the embedded static images.
func DefaultAssets() Assets {
	return Assets{
		HeroImage: "/static/img/hero.svg",
		OGImage:   "/static/img/og-image.svg",
	}
}

// ResolveAssets uses Cloudinary URLs when the service is configured and falls
// back to static files per image otherwise.
func ResolveAssets(s *CloudinaryService) Assets {
	assets := DefaultAssets()
	if s == nil {
		return assets
	}

	if url, err := s.ImageURL("hero", "c_fill,w_1280,q_auto,f_auto"); err == nil {
		assets.HeroImage = url
	} else {
		logrus.Warnf("Using static hero image: %v", err)
	}

	if url, err := s.ImageURL("og-image", "c_fill,w_1200,h_630"); err == nil {
		assets.OGImage = url
	} else {
		logrus.Warnf("Using static og image: %v", err)
	}

	return assets
}
