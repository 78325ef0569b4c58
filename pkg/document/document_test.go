package document_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channel(t *testing.T) *tree.ModelTree {
	t.Helper()
	m, err := fem.PoiseuillePlane(fem.Registry(), fem.DefaultChannel())
	require.NoError(t, err)
	return m
}

func TestWrite_Layout(t *testing.T) {
	m := channel(t)
	doc := document.Write(m.Node)

	assert.Equal(t, "pp", doc.Tag())
	assert.Equal(t, "model", doc.TypeInfo())
	assert.Equal(t, m.Size(), doc.Count())

	r1 := doc.Children[0].Children[0].Children[0]
	assert.Equal(t, "r1", r1.Tag())
	assert.Equal(t, "geometry_feature", r1.TypeInfo())
	assert.Equal(t, "rectangle", r1.Attributes[fem.KeyGeomType])
	assert.NotNil(t, r1.Children)
	assert.Empty(t, r1.Children)
}

func TestMarshal_SortedIndentedJSON(t *testing.T) {
	m, err := tree.NewModelTree(fem.Registry(), "m")
	require.NoError(t, err)
	_, err = m.Create(fem.TypeStudy, "std", nil)
	require.NoError(t, err)

	data, err := document.Marshal(document.Write(m.Node))
	require.NoError(t, err)

	want := `{
    "attributes": {
        "tag": "m",
        "type_info": "model"
    },
    "children": [
        {
            "attributes": {
                "physics_tag": null,
                "tag": "std",
                "type_info": "study"
            },
            "children": []
        }
    ]
}`
	assert.Equal(t, want, string(data))
}

func TestArchive_SingleEntry(t *testing.T) {
	data, err := document.EncodeArchive(document.Write(channel(t).Node))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, domain.ArchiveEntry, zr.File[0].Name)
	assert.Equal(t, zip.Deflate, zr.File[0].Method)
}

func TestArchive_IgnoresExtraEntries(t *testing.T) {
	payload, err := document.Marshal(document.Write(channel(t).Node))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	extra, err := zw.Create("thumbnail.png")
	require.NoError(t, err)
	_, err = extra.Write([]byte("not really a png"))
	require.NoError(t, err)
	entry, err := zw.Create(domain.ArchiveEntry)
	require.NoError(t, err)
	_, err = entry.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	doc, err := document.DecodeArchive(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "pp", doc.Tag())
}

func TestArchive_Errors(t *testing.T) {
	_, err := document.DecodeArchive([]byte("definitely not a zip"))
	assert.ErrorIs(t, err, domain.ErrIO)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("other.json")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = document.DecodeArchive(buf.Bytes())
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)

	buf.Reset()
	zw = zip.NewWriter(&buf)
	w, err := zw.Create(domain.ArchiveEntry)
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"attributes": [`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = document.DecodeArchive(buf.Bytes())
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestRead_Malformed(t *testing.T) {
	reg := fem.Registry()
	model := func(children ...*document.Document) *document.Document {
		return &document.Document{
			Attributes: map[string]any{"tag": "m", "type_info": "model"},
			Children:   children,
		}
	}
	node := func(attrs map[string]any) *document.Document {
		return &document.Document{Attributes: attrs}
	}

	tests := map[string]*document.Document{
		"nil":            nil,
		"missing tag":    node(map[string]any{"type_info": "model"}),
		"unknown kind":   model(node(map[string]any{"tag": "x", "type_info": "wormhole"})),
		"bad variant":    model(node(map[string]any{"tag": "x", "type_info": "geometry_feature", "geom_type": "torus"})),
		"missing dim":    model(node(map[string]any{"tag": "c", "type_info": "component"})),
		"bad value":      model(node(map[string]any{"tag": "s", "type_info": "study", "physics_tag": 12})),
		"wrong kind":     model(node(map[string]any{"tag": "g", "type_info": "geometry"})),
		"duplicate tags": model(node(map[string]any{"tag": "s", "type_info": "study"}), node(map[string]any{"tag": "s", "type_info": "study"})),
		"own tag":        model(node(map[string]any{"tag": "m", "type_info": "study"})),
		"invalid tag":    model(node(map[string]any{"tag": "a/b", "type_info": "study"})),
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			root, err := document.Read(reg, doc)
			assert.ErrorIs(t, err, domain.ErrMalformedDocument)
			assert.Nil(t, root)
		})
	}
}

func TestRead_ErrorNamesNode(t *testing.T) {
	doc := document.Write(channel(t).Node)
	doc.Children[0].Children[0].Children[0].Attributes["a"] = "-5 mm"

	_, err := document.Read(fem.Registry(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
	assert.ErrorIs(t, err, domain.ErrInvalidPropertyValue)
	assert.Contains(t, err.Error(), "pp/comp/geom/r1")
}

func TestReadModel_RequiresModelRoot(t *testing.T) {
	doc := &document.Document{Attributes: map[string]any{"tag": "s", "type_info": "study"}}
	_, err := document.ReadModel(fem.Registry(), doc)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestEncodeDecode_Formats(t *testing.T) {
	m := channel(t)
	doc := document.Write(m.Node)

	for _, format := range []document.Format{document.FormatArchive, document.FormatJSON, document.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, document.Encode(&buf, doc, format))

			decoded, err := document.Decode(&buf, format)
			require.NoError(t, err)
			back, err := document.ReadModel(fem.Registry(), decoded)
			require.NoError(t, err)
			assert.Equal(t, doc, document.Write(back.Node))
		})
	}

	_, err := document.Decode(strings.NewReader("attributes: [1"), document.FormatYAML)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, document.FormatJSON, document.FormatFromPath("model.JSON"))
	assert.Equal(t, document.FormatYAML, document.FormatFromPath("model.yml"))
	assert.Equal(t, document.FormatArchive, document.FormatFromPath("model.proj"))

	f, err := document.ParseFormat("zip")
	require.NoError(t, err)
	assert.Equal(t, document.FormatArchive, f)
	_, err = document.ParseFormat("xml")
	assert.Error(t, err)
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "pp.proj")
	doc := document.Write(channel(t).Node)

	require.NoError(t, document.SaveFile(path, doc))
	require.NoError(t, document.SaveFile(path, doc), "overwrite")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")

	loaded, err := document.LoadFile(path)
	require.NoError(t, err)
	back, err := document.ReadModel(fem.Registry(), loaded)
	require.NoError(t, err)
	assert.Equal(t, doc, document.Write(back.Node))

	_, err = document.LoadFile(filepath.Join(dir, "missing.proj"))
	assert.ErrorIs(t, err, domain.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
