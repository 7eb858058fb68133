package catalog

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"creationrights/internal/config"
	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
)

const dateLayout = "2006-01-02"

var creationTypeValues = func() []interface{} {
	out := make([]interface{}, len(models.CreationTypes))
	for i, t := range models.CreationTypes {
		out[i] = t
	}
	return out
}()

// ValidateCreation checks the fields required for a creation to be persisted.
func ValidateCreation(c *models.Creation) error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Title,
			validation.Required,
			validation.Length(1, config.MaxCreationTitleLength),
		),
		validation.Field(&c.Type,
			validation.Required,
			validation.In(creationTypeValues...).Error("must be one of Image, Text, Music, Video, Software, Other"),
		),
		validation.Field(&c.DateCreated, validation.Date(dateLayout)),
		validation.Field(&c.Notes, validation.Length(0, config.MaxNotesLength)),
		validation.Field(&c.Tags, validation.Each(validation.Length(1, config.MaxTagLength))),
	)
	if err != nil {
		return domain.NewValidationError(err)
	}

	if o, ok := c.Imported(); ok {
		if err := validation.ValidateStruct(&o,
			validation.Field(&o.Source, validation.Required),
			validation.Field(&o.SourceURL, is.URL),
			validation.Field(&o.ThumbnailURL, is.URL),
		); err != nil {
			return domain.NewValidationError(err)
		}
	}
	return nil
}

// ValidateFolder checks the fields required for a folder to be persisted.
func ValidateFolder(f *models.Folder) error {
	err := validation.ValidateStruct(f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
	)
	return domain.NewValidationError(err)
}
