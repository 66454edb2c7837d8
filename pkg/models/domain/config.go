package domain

import "fmt"

type ProfileType string

const (
	ProfileTypeFS    ProfileType = "fs"
	ProfileTypeS3    ProfileType = "s3"
	ProfileTypeAzure ProfileType = "azure"
)

// StorageProfile describes where uploaded spreadsheets are kept.
type StorageProfile struct {
	Name       string
	Type       ProfileType
	Root       string // fs
	Bucket     string // s3
	Region     string // s3
	Endpoint   string // s3, optional (MinIO, LocalStack)
	AWSProfile string // s3, optional shared config profile
	AccountURL string // azure
	Container  string // azure
}

func (p StorageProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Type, p.Name)
}
