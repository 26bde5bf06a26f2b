package refdata_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/refdata"
)

const validDoc = `
stats:
  - {code: MXHP, name: Max HP}
  - {code: STRN, name: Strength}
  - {code: DEFN, name: Defense}
damage_types:
  - {code: SLSH, name: Slashing}
  - {code: FIRE, name: Fire}
inclinations:
  - {code: PHYS, name: Physical}
  - {code: MAGI, name: Magical}
equipment_types:
  - {code: WEAP, name: Weapon}
element_groups:
  - {code: BLAD, name: Blades}
elements:
  - {code: STEL, name: Steel, group: BLAD}
  - {code: BRNZ, name: Bronze, group: BLAD}
end: true
`

func loadKind(t *testing.T, doc string) refdata.ErrorKind {
	t.Helper()
	_, err := refdata.LoadFromBytes([]byte(doc))
	require.Error(t, err)
	var le *refdata.LoadError
	require.True(t, errors.As(err, &le), "expected *LoadError, got %T: %v", err, err)
	return le.Kind
}

func TestParseKey_PacksBigEndian(t *testing.T) {
	k, err := refdata.ParseKey("ABCD")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x41424344), k.Packed())
	assert.Equal(t, "ABCD", k.Code())
}

func TestParseKey_RejectsWrongLength(t *testing.T) {
	for _, code := range []string{"", "ABC", "ABCDE"} {
		_, err := refdata.ParseKey(code)
		assert.Error(t, err, "code %q", code)
	}
}

func TestParseKey_RejectsNonPrintable(t *testing.T) {
	_, err := refdata.ParseKey("AB C")
	assert.Error(t, err)
}

func TestAbbreviatedKey_EqualityByCode(t *testing.T) {
	a := refdata.MustStat("MXHP")
	b := refdata.MustStat("MXHP")
	assert.Equal(t, a, b)
	assert.True(t, a.Equal(b.AbbreviatedKey))

	m := map[refdata.StatKey]int{a: 1}
	assert.Equal(t, 1, m[b])
}

func TestAutoInclination(t *testing.T) {
	assert.True(t, refdata.AutoInclination.IsAuto())
	assert.False(t, refdata.MustInclination("PHYS").IsAuto())
}

func TestPropertyParseKey_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		code := rapid.StringMatching(`[A-Z0-9]{4}`).Draw(t, "code")
		k, err := refdata.ParseKey(code)
		require.NoError(t, err)
		assert.Equal(t, code, k.Code())
	})
}

func TestPropertyCompare_MatchesStringOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.StringMatching(`[A-Z]{4}`).Draw(t, "a")
		b := rapid.StringMatching(`[A-Z]{4}`).Draw(t, "b")
		ka, kb := refdata.MustKey(a), refdata.MustKey(b)
		switch {
		case a < b:
			assert.Equal(t, -1, ka.Compare(kb))
		case a > b:
			assert.Equal(t, 1, ka.Compare(kb))
		default:
			assert.Equal(t, 0, ka.Compare(kb))
		}
	})
}

func TestLoadFromBytes_Valid(t *testing.T) {
	s, err := refdata.LoadFromBytes([]byte(validDoc))
	require.NoError(t, err)

	mxhp, ok := s.Stat("MXHP")
	require.True(t, ok)
	assert.Equal(t, "Max HP", s.StatName(mxhp))
	assert.Len(t, s.Stats(), 3)

	// Listing is sorted by code.
	incls := s.Inclinations()
	require.Len(t, incls, 2)
	assert.Equal(t, "MAGI", incls[0].Code())
	assert.Equal(t, "PHYS", incls[1].Code())

	blad, ok := s.ElementGroup("BLAD")
	require.True(t, ok)
	members := s.GroupElements(blad)
	require.Len(t, members, 2)
	assert.Equal(t, "BRNZ", members[0].Code())
	assert.Equal(t, "STEL", members[1].Code())

	stel, _ := s.Element("STEL")
	g, ok := s.ElementGroupOf(stel)
	require.True(t, ok)
	assert.Equal(t, blad, g)
}

func TestLoadFromBytes_AutoResolvesButIsNotListed(t *testing.T) {
	s, err := refdata.LoadFromBytes([]byte(validDoc))
	require.NoError(t, err)
	auto, ok := s.Inclination("AUTO")
	require.True(t, ok)
	assert.True(t, auto.IsAuto())
	for _, i := range s.Inclinations() {
		assert.False(t, i.IsAuto())
	}
}

func TestLoadFromBytes_MissingEndMarker(t *testing.T) {
	doc := "stats:\n  - {code: MXHP, name: Max HP}\n"
	assert.Equal(t, refdata.KindMissingEndMarker, loadKind(t, doc))
}

func TestLoadFromBytes_EmptyDocument(t *testing.T) {
	assert.Equal(t, refdata.KindMissingEndMarker, loadKind(t, ""))
}

func TestLoadFromBytes_DuplicateCode(t *testing.T) {
	doc := "stats:\n  - {code: MXHP, name: Max HP}\n  - {code: MXHP, name: Again}\nend: true\n"
	assert.Equal(t, refdata.KindDuplicateCode, loadKind(t, doc))
}

func TestLoadFromBytes_MalformedCode(t *testing.T) {
	doc := "stats:\n  - {code: MAXHP, name: Max HP}\nend: true\n"
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, doc))
}

func TestLoadFromBytes_UnknownField(t *testing.T) {
	doc := "statz: []\nend: true\n"
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, doc))
}

func TestLoadFromBytes_ReservedAuto(t *testing.T) {
	doc := "inclinations:\n  - {code: AUTO, name: Auto}\nend: true\n"
	assert.Equal(t, refdata.KindMalformedRecord, loadKind(t, doc))
}

func TestLoadFromBytes_UndefinedElementGroup(t *testing.T) {
	doc := "elements:\n  - {code: STEL, name: Steel, group: BLAD}\nend: true\n"
	assert.Equal(t, refdata.KindUndefinedElementGroup, loadKind(t, doc))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refdata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0644))
	s, err := refdata.Load(path)
	require.NoError(t, err)
	assert.Len(t, s.DamageTypes(), 2)
}

func TestLoad_WrapsLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refdata.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stats: []\n"), 0644))
	_, err := refdata.Load(path)
	var le *refdata.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, refdata.KindMissingEndMarker, le.Kind)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "duplicate code", refdata.KindDuplicateCode.String())
	assert.Equal(t, "unknown", refdata.ErrorKind(99).String())
}
