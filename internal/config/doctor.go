package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"yt-transcript-fetcher/internal/catalog"
	"yt-transcript-fetcher/internal/model"
)

// CredentialEnvVar names the secondary-source API key; it is read from the
// environment, with .env files loaded by the CLI before commands run.
const CredentialEnvVar = "SUPADATA_API_KEY"

type DoctorOptions struct {
	CataloguePath string
	OutputDir     string
	SettingsPath  string
}

type DoctorResult struct {
	OK     bool          `json:"ok"`
	Checks []DoctorCheck `json:"checks"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type InitWorkspaceOptions struct {
	CataloguePath string
	OutputDir     string
	SettingsPath  string
}

type InitWorkspaceResult struct {
	CataloguePath    string       `json:"catalogue_path"`
	OutputDir        string       `json:"output_dir"`
	SettingsPath     string       `json:"settings_path"`
	CreatedCatalogue bool         `json:"created_catalogue"`
	CreatedOutputDir bool         `json:"created_output_dir"`
	CreatedSettings  bool         `json:"created_settings"`
	DoctorResult     DoctorResult `json:"doctor"`
}

// Doctor runs the preflight checks a fetch run depends on: a parseable
// catalogue, a writable output directory, a writable settings location, and
// the secondary-source credential.
func Doctor(opts DoctorOptions) (DoctorResult, error) {
	cataloguePath := defaultIfBlank(opts.CataloguePath, catalog.DefaultPath)
	outputDir := defaultIfBlank(opts.OutputDir, DefaultOutputDir)
	settingsPath := normalizePath(opts.SettingsPath)

	checks := make([]DoctorCheck, 0, 4)
	checks = append(checks, catalogueCheck(cataloguePath))

	outOK, outMessage := ensureWritableDir(outputDir)
	checks = append(checks, DoctorCheck{
		Name:    "directory:output",
		OK:      outOK,
		Message: outMessage,
	})

	cfgOK, cfgMessage := ensureWritableDir(filepath.Dir(settingsPath))
	checks = append(checks, DoctorCheck{
		Name:    "directory:config",
		OK:      cfgOK,
		Message: cfgMessage,
	})

	checks = append(checks, credentialCheck())

	ok := true
	for _, c := range checks {
		if !c.OK {
			ok = false
			break
		}
	}
	return DoctorResult{OK: ok, Checks: checks}, nil
}

// InitWorkspace scaffolds a working directory: an empty catalogue when none
// exists, the output directory, and a settings file with defaults, then
// runs the doctor checks against the result.
func InitWorkspace(opts InitWorkspaceOptions) (InitWorkspaceResult, error) {
	cataloguePath := defaultIfBlank(opts.CataloguePath, catalog.DefaultPath)
	outputDir := defaultIfBlank(opts.OutputDir, DefaultOutputDir)
	settingsPath := normalizePath(opts.SettingsPath)

	createdOutputDir := false
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		createdOutputDir = true
	}
	if err := catalog.Mkdir(outputDir); err != nil {
		return InitWorkspaceResult{}, err
	}

	createdCatalogue := false
	if _, err := catalog.Load(cataloguePath); errors.Is(err, os.ErrNotExist) {
		if err := catalog.Save(model.Catalogue{ContentResources: []model.Creator{}}, cataloguePath); err != nil {
			return InitWorkspaceResult{}, err
		}
		createdCatalogue = true
	} else if err != nil {
		return InitWorkspaceResult{}, err
	}

	_, createdSettings, err := Ensure(settingsPath)
	if err != nil {
		return InitWorkspaceResult{}, err
	}

	doc, err := Doctor(DoctorOptions{
		CataloguePath: cataloguePath,
		OutputDir:     outputDir,
		SettingsPath:  settingsPath,
	})
	if err != nil {
		return InitWorkspaceResult{}, err
	}

	return InitWorkspaceResult{
		CataloguePath:    cataloguePath,
		OutputDir:        outputDir,
		SettingsPath:     settingsPath,
		CreatedCatalogue: createdCatalogue,
		CreatedOutputDir: createdOutputDir,
		CreatedSettings:  createdSettings,
		DoctorResult:     doc,
	}, nil
}

func catalogueCheck(path string) DoctorCheck {
	check := DoctorCheck{Name: "catalogue:parse"}
	cat, err := catalog.Load(path)
	switch {
	case err == nil:
		check.OK = true
		check.Message = pluralVideos(cat.VideoCount()) + " in " + path
	case errors.Is(err, os.ErrNotExist):
		check.Message = path + " not found (run init to scaffold one)"
	default:
		check.Message = err.Error()
	}
	return check
}

func credentialCheck() DoctorCheck {
	check := DoctorCheck{Name: "credential:" + strings.ToLower(CredentialEnvVar)}
	if strings.TrimSpace(os.Getenv(CredentialEnvVar)) != "" {
		check.OK = true
		check.Message = CredentialEnvVar + " is set"
		return check
	}
	check.Message = CredentialEnvVar + " not set (fallback fetches will fail; .env files are honored)"
	return check
}

func ensureWritableDir(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "empty path"
	}
	if err := catalog.Mkdir(path); err != nil {
		return false, err.Error()
	}
	f, err := os.CreateTemp(path, "yt-transcript-fetcher-check-*.tmp")
	if err != nil {
		return false, err.Error()
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return true, "writable"
}

func defaultIfBlank(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func pluralVideos(n int) string {
	if n == 1 {
		return "1 video"
	}
	return strconv.Itoa(n) + " videos"
}
