package workers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/config"
	"github.com/pixelgrove/photovaultbackend/media"
	"github.com/pixelgrove/photovaultbackend/models"
	"github.com/pixelgrove/photovaultbackend/repository"
	"github.com/pixelgrove/photovaultbackend/scripting"
	"github.com/pixelgrove/photovaultbackend/tagger"
)

// ErrNoAdminAccount is the one unrecoverable precondition: ingestion
// cannot proceed when no owner can be resolved at all.
var ErrNoAdminAccount = errors.New("no administrator account exists")

// Pipeline drives one image file through the enrichment sequence,
// persisting results and the execution audit trail. Every enrichment
// stage is individually fault-isolated; only owner resolution failure
// aborts an asset.
type Pipeline struct {
	Cfg          *config.Provider
	Assets       repository.AssetRepositoryInterface
	Technical    repository.TechnicalMetadataRepositoryInterface
	Tags         repository.TagRepositoryInterface
	CustomFields repository.CustomFieldRepositoryInterface
	Users        repository.UserRepositoryInterface
	Ledger       repository.ExecutionLogRepositoryInterface
	Tagger       *tagger.Tagger
	Scripts      *scripting.Executor
}

// stage is one independent unit of the processing sequence; a failing
// stage is logged and the next stage still runs
type stage struct {
	name string
	run  func(asset *models.MediaAsset) error
}

// ProcessAsset ingests or re-ingests one image file: resolves an owner,
// upserts the catalog record by path, then runs the enrichment stages in
// order. Re-running on the same path converges to the same end state.
func (p *Pipeline) ProcessAsset(filePath, ownerHint string) (*models.MediaAsset, error) {
	owner, err := p.resolveOwner(ownerHint)
	if err != nil {
		return nil, err
	}

	asset, err := p.upsertAsset(filePath, owner)
	if err != nil {
		return nil, err
	}

	stages := []stage{
		{"thumbnail", p.runThumbnail},
		{"technical-metadata", p.runTechnicalMetadata},
		{"sidecar", p.runSidecar},
		{"ai-tagger", p.runAITagger},
		{"custom-script", p.runCustomScript},
	}
	for _, s := range stages {
		if err := s.run(asset); err != nil {
			log.Printf("pipeline: stage %s failed for %s: %v", s.name, filePath, err)
		}
	}

	return asset, nil
}

// resolveOwner matches the hint against the account directory and falls
// back to the first administrator; no administrator at all is fatal
func (p *Pipeline) resolveOwner(ownerHint string) (*models.User, error) {
	if ownerHint != "" {
		owner, err := p.Users.GetByEmail(ownerHint)
		if err == nil {
			return owner, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pipeline: owner lookup failed for %q: %w", ownerHint, err)
		}
		log.Printf("pipeline: owner hint %q not found, falling back to first admin", ownerHint)
	}

	admin, err := p.Users.GetFirstAdmin()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoAdminAccount
		}
		return nil, fmt.Errorf("pipeline: admin lookup failed: %w", err)
	}
	return admin, nil
}

// upsertAsset loads or creates the record for the path and refreshes
// size, filesystem timestamps, owner, and dimensions. The thumbnail path
// is cleared here and set again by the thumbnail stage so failed
// generation leaves it absent.
func (p *Pipeline) upsertAsset(filePath string, owner *models.User) (*models.MediaAsset, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: cannot stat %s: %w", filePath, err)
	}

	now := time.Now().Unix()
	asset, err := p.Assets.GetByPath(filePath)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		asset = &models.MediaAsset{
			FilePath:    filepath.ToSlash(filePath),
			FsCreatedAt: info.ModTime().Unix(),
			IngestedAt:  now,
			Visible:     true,
		}
	}

	asset.FileName = filepath.Base(filePath)
	asset.SizeBytes = info.Size()
	asset.FsModifiedAt = info.ModTime().Unix()
	asset.OwnerID = &owner.ID
	asset.ThumbnailPath = nil

	width, height, err := media.ReadDimensions(filePath)
	if err != nil {
		log.Printf("pipeline: could not read dimensions of %s: %v", filePath, err)
	} else {
		asset.Width = width
		asset.Height = height
	}

	// persist before the stages so dependent records have a stable id
	if err := p.Assets.Save(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (p *Pipeline) runThumbnail(asset *models.MediaAsset) error {
	thumbPath, err := media.GenerateThumbnail(asset.FilePath, p.Cfg.ThumbnailsDir(), p.Cfg.ThumbnailMaxSize())
	if err != nil {
		return err
	}
	asset.ThumbnailPath = &thumbPath
	return p.Assets.Save(asset)
}

func (p *Pipeline) runTechnicalMetadata(asset *models.MediaAsset) error {
	info, err := media.ExtractTechnical(asset.FilePath)
	if err != nil {
		return err
	}
	if info.IsEmpty() {
		// wholesale replace: no extractable fields clears any prior record
		return p.Technical.ReplaceForAsset(asset.ID, nil)
	}

	return p.Technical.ReplaceForAsset(asset.ID, &models.TechnicalMetadata{
		CapturedAt:   info.CapturedAt,
		CameraMake:   info.CameraMake,
		CameraModel:  info.CameraModel,
		Latitude:     info.Latitude,
		Longitude:    info.Longitude,
		ExposureTime: info.ExposureTime,
		Aperture:     info.Aperture,
		ISO:          info.ISO,
		FocalLength:  info.FocalLength,
		Orientation:  info.Orientation,
	})
}

func (p *Pipeline) runSidecar(asset *models.MediaAsset) error {
	sidecarPath := media.SidecarPath(asset.FilePath)
	if _, err := os.Stat(sidecarPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("pipeline: cannot stat sidecar %s: %w", sidecarPath, err)
	}

	parsed, err := media.ParseSidecar(sidecarPath)
	if err != nil {
		return err
	}

	for _, value := range parsed.Tags {
		if err := p.linkTag(asset.ID, value); err != nil {
			return err
		}
	}
	for name, value := range parsed.Fields {
		field, err := p.CustomFields.FindOrCreateField(name)
		if err != nil {
			return err
		}
		if err := p.CustomFields.UpsertValue(asset.ID, field.ID, value); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runAITagger(asset *models.MediaAsset) error {
	if p.Tagger == nil || !p.Tagger.Enabled() {
		return nil
	}

	tags, err := p.Tagger.Tags(context.Background(), asset.FilePath)
	entry := &models.ExecutionLogEntry{
		ScriptName: tagger.PseudoScriptName,
		AssetID:    &asset.ID,
		Success:    err == nil,
		ExecutedAt: time.Now().Unix(),
	}
	if err != nil {
		msg := err.Error()
		entry.ErrorText = &msg
		if ledgerErr := p.Ledger.Append(entry); ledgerErr != nil {
			log.Printf("pipeline: failed to record tagger failure for %s: %v", asset.FilePath, ledgerErr)
		}
		return err
	}

	for _, value := range tags {
		if err := p.linkTag(asset.ID, value); err != nil {
			return err
		}
	}
	if err := p.Ledger.Append(entry); err != nil {
		log.Printf("pipeline: failed to record tagger success for %s: %v", asset.FilePath, err)
	}
	return nil
}

func (p *Pipeline) runCustomScript(asset *models.MediaAsset) error {
	if p.Scripts == nil {
		return nil
	}
	ext := media.NormalizedExtension(asset.FilePath)
	script, ok := p.Scripts.ScriptForExtension(ext)
	if !ok {
		return nil
	}
	// outcome handling, logging, and the ledger entry live in the executor
	p.Scripts.Execute(script, &asset.FilePath, &asset.ID)
	return nil
}

func (p *Pipeline) linkTag(assetID uint, value string) error {
	tag, err := p.Tags.FindOrCreate(value)
	if err != nil {
		return err
	}
	_, err = p.Tags.FindOrCreateLink(assetID, tag.ID)
	return err
}
