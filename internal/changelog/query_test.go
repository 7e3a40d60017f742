package changelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func released(version, day string) *Release {
	r := NewRelease(version)
	r.Date = date(day)
	return r
}

func TestLatestReleased(t *testing.T) {
	tests := map[string]struct {
		releases []*Release
		want     string
		wantNil  bool
	}{
		"empty changelog": {
			releases: nil,
			wantNil:  true,
		},
		"first released wins": {
			releases: []*Release{
				released("1.0.0", "2026-02-01"),
				released("0.9.0", "2026-01-01"),
			},
			want: "1.0.0",
		},
		"skips unreleased entries": {
			releases: []*Release{
				NewRelease(""),
				NewRelease("1.1.0"),
				released("1.0.0", "2026-02-01"),
			},
			want: "1.0.0",
		},
		"dated entry without version is not released": {
			releases: []*Release{
				{Date: date("2026-03-01"), Changes: Changes{}},
				released("1.0.0", "2026-02-01"),
			},
			want: "1.0.0",
		},
		"only unreleased": {
			releases: []*Release{NewRelease(""), NewRelease("2.0.0")},
			wantNil:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := New("Changelog")
			c.Releases = tt.releases

			got := c.LatestReleased()
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Version)
		})
	}
}

func TestPromoteUnreleased(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		releases    []*Release
		req         VersionRequest
		wantIndex   int
		wantVersion string
		wantErr     bool
	}{
		"any promotes undated entry with version": {
			releases:    []*Release{NewRelease("1.1.0"), released("1.0.0", "2026-01-01")},
			req:         AnyVersion(),
			wantIndex:   0,
			wantVersion: "1.1.0",
		},
		"any prefers versioned entry over unversioned": {
			releases:    []*Release{NewRelease(""), NewRelease("1.1.0"), released("1.0.0", "2026-01-01")},
			req:         AnyVersion(),
			wantIndex:   1,
			wantVersion: "1.1.0",
		},
		"any releases unversioned entry without version bump": {
			releases:    []*Release{NewRelease(""), released("1.0.0", "2026-01-01")},
			req:         AnyVersion(),
			wantIndex:   0,
			wantVersion: "",
		},
		"specific assigns version to unversioned entry": {
			releases:    []*Release{NewRelease(""), released("1.0.0", "2026-01-01")},
			req:         SpecificVersion("1.2.3"),
			wantIndex:   0,
			wantVersion: "1.2.3",
		},
		"specific matches entry with same version": {
			releases:    []*Release{NewRelease("1.2.3"), released("1.0.0", "2026-01-01")},
			req:         SpecificVersion("1.2.3"),
			wantIndex:   0,
			wantVersion: "1.2.3",
		},
		"specific skips entry with different version": {
			releases:    []*Release{NewRelease("2.0.0"), NewRelease(""), released("1.0.0", "2026-01-01")},
			req:         SpecificVersion("1.2.3"),
			wantIndex:   1,
			wantVersion: "1.2.3",
		},
		"specific with v prefix": {
			releases:    []*Release{NewRelease("1.2.3")},
			req:         SpecificVersion("v1.2.3"),
			wantIndex:   0,
			wantVersion: "1.2.3",
		},
		"specific fails without undated entries": {
			releases: []*Release{released("1.0.0", "2026-01-01")},
			req:      SpecificVersion("1.2.3"),
			wantErr:  true,
		},
		"specific fails when only other versions are pending": {
			releases: []*Release{NewRelease("2.0.0")},
			req:      SpecificVersion("1.2.3"),
			wantErr:  true,
		},
		"any fails on empty changelog": {
			releases: nil,
			req:      AnyVersion(),
			wantErr:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := New("Changelog")
			c.Releases = tt.releases

			got, err := c.PromoteUnreleased(tt.req, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsSelectionError(err))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.releases[tt.wantIndex], got)
			assert.Equal(t, now, got.Date)
			assert.Equal(t, tt.wantVersion, got.Version)
		})
	}
}

func TestPromoteUnreleased_AnyLeavesVersion(t *testing.T) {
	now := time.Now()
	pending := NewRelease("3.1.0")
	c := New("Changelog")
	c.Releases = []*Release{pending, released("3.0.0", "2026-01-01")}

	got, err := c.PromoteUnreleased(AnyVersion(), now)
	require.NoError(t, err)
	assert.Same(t, pending, got)
	assert.Equal(t, "3.1.0", got.Version)
	assert.True(t, got.IsReleased())
	assert.Same(t, got, c.LatestReleased())
}

func TestSelectionError_Message(t *testing.T) {
	assert.Equal(t, "no unreleased version available", (&SelectionError{}).Error())
	assert.Contains(t, (&SelectionError{Requested: "1.2.3"}).Error(), `"1.2.3"`)
}

func TestCreateRelease(t *testing.T) {
	c := New("Changelog")
	c.Releases = []*Release{released("1.0.0", "2026-01-01")}

	versioned := c.CreateRelease("2.0.0")
	unversioned := c.CreateRelease("")

	require.Len(t, c.Releases, 3)
	assert.Same(t, unversioned, c.Releases[0])
	assert.Same(t, versioned, c.Releases[1])
	assert.Equal(t, "1.0.0", c.Releases[2].Version)

	assert.False(t, unversioned.HasVersion())
	assert.False(t, unversioned.HasDate())
	assert.Equal(t, "2.0.0", versioned.Version)
	assert.False(t, versioned.HasDate())
}

func TestRelease_Lookup(t *testing.T) {
	c := New("Changelog")
	c.Releases = []*Release{NewRelease(""), released("1.0.0", "2026-01-01")}

	assert.NotNil(t, c.Release("1.0.0"))
	assert.NotNil(t, c.Release("v1.0.0"))
	assert.Nil(t, c.Release("2.0.0"))
	assert.Nil(t, c.Release(""))
	assert.Same(t, c.Releases[0], c.Unreleased())
	assert.Equal(t, []string{"1.0.0"}, c.ListVersions())
}

func TestNormalizeVersion(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"plain":           {in: "1.0.0", want: "1.0.0"},
		"lowercase v":     {in: "v1.0.0", want: "1.0.0"},
		"uppercase v":     {in: "V1.0.0", want: "1.0.0"},
		"whitespace":      {in: " 1.0.0 ", want: "1.0.0"},
		"word starting v": {in: "vnext", want: "vnext"},
		"single v":        {in: "v", want: "v"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeVersion(tt.in))
		})
	}
}
