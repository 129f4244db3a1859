package registry

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
	"github.com/google/go-containerregistry/pkg/v1/types"
	"github.com/opencontainers/go-digest"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/xray-reporter/kube-xray-reporter/pkg/etc"
)

const HeaderContentDigest = "Docker-Content-Digest"

var hexPattern = regexp.MustCompile(`^[a-f0-9]+$`)

// Resolver maps a container image reference to the sha256 digest of its
// manifest in the configured registry.
type Resolver interface {
	Resolve(ctx context.Context, image string) (Resolution, error)
}

type Option func(*resolver)

// WithTransport replaces the base round tripper used for registry calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(r *resolver) {
		r.transport = rt
	}
}

type resolver struct {
	host      string
	registry  name.Registry
	nameOpts  []name.Option
	auth      authn.Authenticator
	transport http.RoundTripper
	config    etc.Registry
}

func NewResolver(config etc.Registry, creds etc.Credentials, opts ...Option) (Resolver, error) {
	var nameOpts []name.Option
	if config.Insecure {
		nameOpts = append(nameOpts, name.Insecure)
	}

	reg, err := name.NewRegistry(config.Host, nameOpts...)
	if err != nil {
		return nil, xerrors.Errorf("parsing registry host: %w", err)
	}

	var auth authn.Authenticator = authn.Anonymous
	if creds.Username != "" {
		auth = &authn.Basic{
			Username: creds.Username,
			Password: creds.Password,
		}
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: config.Insecure}

	r := &resolver{
		host:      config.Host,
		registry:  reg,
		nameOpts:  nameOpts,
		auth:      auth,
		transport: tr,
		config:    config,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *resolver) Resolve(ctx context.Context, image string) (Resolution, error) {
	if !strings.Contains(image, r.host) {
		return Resolution{Status: OutOfScope}, nil
	}

	imageLog := log.WithField("image", image)

	base, dgst, pinned := strings.Cut(image, "@")
	ref, err := name.ParseReference(base, r.nameOpts...)
	if err != nil {
		imageLog.WithError(err).Warn("Malformed image reference")
		return Resolution{Status: Malformed}, nil
	}

	if ref.Context().RegistryStr() != r.registry.RegistryStr() {
		return Resolution{Status: OutOfScope}, nil
	}

	if pinned {
		resolution := fromDigest(dgst)
		if resolution.Status == Unsupported && !strings.Contains(dgst, ":") {
			resolution.Status = Malformed
		}
		imageLog.WithField("status", resolution.Status.String()).Debug("Resolved pinned digest")
		return resolution, nil
	}

	tag, ok := ref.(name.Tag)
	if !ok {
		return Resolution{Status: Malformed}, nil
	}
	return r.lookup(ctx, tag)
}

// lookup bounds the registry ping, the token exchange and the manifest
// request by the configured timeout.
func (r *resolver) lookup(ctx context.Context, tag name.Tag) (Resolution, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	repo := tag.Context()
	rt, err := transport.NewWithContext(ctx, repo.Registry, r.auth, r.transport, []string{repo.Scope(transport.PullScope)})
	if err != nil {
		return Resolution{}, xerrors.Errorf("authenticating to registry %s: %w", repo.RegistryStr(), err)
	}

	u := url.URL{
		Scheme: repo.Scheme(),
		Host:   repo.RegistryStr(),
		Path:   fmt.Sprintf("/v2/%s/manifests/%s", repo.RepositoryStr(), tag.TagStr()),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Resolution{}, xerrors.Errorf("creating manifest request: %w", err)
	}
	req.Header.Set("Accept", string(types.DockerManifestSchema2))

	client := &http.Client{Transport: rt}
	resp, err := client.Do(req)
	if err != nil {
		return Resolution{}, xerrors.Errorf("fetching manifest %s: %w", tag.String(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	reqLog := log.WithFields(log.Fields{
		"image":       tag.String(),
		"status_code": resp.StatusCode,
	})

	if resp.StatusCode == http.StatusNotFound {
		reqLog.Debug("Manifest not found")
		return Resolution{Status: NotFound}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqLog.Warn("Unexpected manifest response")
		return Resolution{Status: NotFound}, nil
	}

	resolution := fromDigest(resp.Header.Get(HeaderContentDigest))
	reqLog.WithField("status", resolution.Status.String()).Debug("Resolved manifest digest")
	return resolution, nil
}

// fromDigest accepts `sha256:<hex>` and returns the hex part. Registries
// are trusted on the digest length, only the algorithm and alphabet are
// checked.
func fromDigest(value string) Resolution {
	if !strings.Contains(value, ":") {
		return Resolution{Status: Unsupported}
	}
	d := digest.Digest(value)
	if d.Algorithm() != digest.SHA256 {
		return Resolution{Status: Unsupported}
	}
	encoded := d.Encoded()
	if !hexPattern.MatchString(encoded) {
		return Resolution{Status: Malformed}
	}
	return Resolution{Status: Resolved, Digest: encoded}
}
