package etc

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	log "github.com/sirupsen/logrus"
)

// Check checks config values to fail fast in case of any problems
// that we might have due to invalid config.
func Check(config Config) (err error) {
	log.WithFields(log.Fields{
		"pid": os.Getpid(),
	}).Debug("Current process")

	if config.Registry.Host == "" {
		return errors.New("registry host must not be blank")
	}

	if config.Xray.URL == "" {
		return errors.New("xray URL must not be blank")
	}

	if _, err = url.ParseRequestURI(config.Xray.URL); err != nil {
		return fmt.Errorf("invalid xray URL: %s", config.Xray.URL)
	}

	if !config.Kube.AllNamespaces && config.Kube.Namespace == "" {
		return errors.New("namespace must not be blank unless all namespaces are listed")
	}

	if config.Schedule.UpdateInterval < 0 {
		return errors.New("update interval must not be negative")
	}

	if config.Report.HTMLDir != "" {
		if err = ensureDirExists(config.Report.HTMLDir, "html report dir"); err != nil {
			return
		}
	}

	if config.API.Enabled && config.API.IsTLSEnabled() {
		if !fileExists(config.API.TLSCertificate) {
			err = fmt.Errorf("TLS certificate file does not exist: %s", config.API.TLSCertificate)
			return
		}
		if !fileExists(config.API.TLSKey) {
			err = fmt.Errorf("TLS private key file does not exist: %s", config.API.TLSKey)
			return
		}
	}

	if config.RedisPool.IsEnabled() && config.RedisStore.ReportTTL < 0 {
		return errors.New("report TTL must not be negative")
	}

	return
}

func ensureDirExists(path, description string) (err error) {
	if !dirExists(path) {
		log.WithField("path", path).Warnf("%s does not exist", description)
		log.WithField("path", path).Debugf("Creating %s", description)
		if err = os.MkdirAll(path, 0755); err != nil {
			err = fmt.Errorf("creating %s: %w", description, err)
			return
		}
	}
	fi, err := os.Stat(path)
	if err != nil {
		return
	}

	log.WithFields(log.Fields{
		"mode": fi.Mode().String(),
	}).Debugf("%s permissions", description)
	return
}

// dirExists checks if a dir exists before we
// try using it to prevent further errors.
func dirExists(name string) bool {
	info, err := os.Stat(name)
	if os.IsNotExist(err) {
		return false
	}
	return info.IsDir()
}

// fileExists checks if a file exists and is not a directory before we
// try using it to prevent further errors.
func fileExists(name string) bool {
	info, err := os.Stat(name)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
