package config

import (
	"context"
	"fmt"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const DefaultStorageProfile = "default"

type StorageRegistry interface {
	GetProfiles(ctx context.Context) ([]domain.StorageProfile, error)
	GetProfile(ctx context.Context, name string) (*domain.StorageProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// NewStorageRegistry loads storage profiles from an ini file:
//
//	[default]
//	type = s3
//	bucket = exports
//	region = sa-east-1
func NewStorageRegistry(path string) (StorageRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage profiles %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.StorageProfile, error) {
	var profiles []domain.StorageProfile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		profile, err := toProfile(section)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (*domain.StorageProfile, error) {
	if name == "" {
		name = DefaultStorageProfile
	}
	section, err := cr.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found: %w", name, err)
	}
	profile, err := toProfile(section)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func toProfile(section *ini.Section) (domain.StorageProfile, error) {
	profile := domain.StorageProfile{
		Name:       section.Name(),
		Type:       domain.ProfileType(section.Key("type").MustString(string(domain.ProfileTypeFS))),
		Root:       section.Key("root").String(),
		Bucket:     section.Key("bucket").String(),
		Region:     section.Key("region").String(),
		Endpoint:   section.Key("endpoint").String(),
		AWSProfile: section.Key("aws_profile").String(),
		AccountURL: section.Key("account_url").String(),
		Container:  section.Key("container").String(),
	}

	switch profile.Type {
	case domain.ProfileTypeFS, domain.ProfileTypeS3, domain.ProfileTypeAzure:
		return profile, nil
	default:
		return domain.StorageProfile{}, fmt.Errorf("profile %s: unsupported storage type %q", profile.Name, profile.Type)
	}
}

// ResolveStorageProfile picks profile name from the ini file at path. Without a file the
// working directory is used as a filesystem store.
func ResolveStorageProfile(ctx context.Context, path, name string) (domain.StorageProfile, error) {
	if path == "" {
		return domain.StorageProfile{Name: "local", Type: domain.ProfileTypeFS, Root: "."}, nil
	}
	registry, err := NewStorageRegistry(path)
	if err != nil {
		return domain.StorageProfile{}, err
	}
	profile, err := registry.GetProfile(ctx, name)
	if err != nil {
		return domain.StorageProfile{}, err
	}
	return *profile, nil
}
