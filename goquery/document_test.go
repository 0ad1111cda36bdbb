package goquery_test

import (
	"testing"
	"time"

	"github.com/fwojciec/lexdoc"
	"github.com/fwojciec/lexdoc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actPage = `<!DOCTYPE html>
<html><body>
<p class="DocumentTitle">Document 32024R0123</p>
<p id="title">Commission Implementing Regulation (EU) 2024/123 of 1 March 2024
  laying down rules</p>
<p id="originalTitle" class="hidden">Original title</p>
<p>C/2024/1234</p>
<a href="http://data.europa.eu/eli/reg_impl/2024/123/oj">ELI</a>
<dl class="NMetadata">
	<dt>Date of document:</dt><dd>01/03/2024; Date of adoption</dd>
	<dt>Date of effect:</dt><dd>24/03/2024; Entry into force</dd>
	<dt>Date of end of validity:</dt><dd>31/12/9999</dd>
</dl>
<dl>
	<dt>Author:</dt><dd>European Commission, Directorate-General for Trade</dd>
	<dt>Form:</dt><dd>Implementing regulation</dd>
	<dt>Responsible body:</dt><dd>DG TRADE</dd>
	<dt>EUROVOC descriptor:</dt><dd><ul><li>import</li><li>anti-dumping duty</li></ul></dd>
	<dt>Subject matter:</dt><dd><ul><li>Commercial policy</li><li>import</li></ul></dd>
	<dt>Directory code:</dt><dd><ul><li>11.60.40.20 <span>External relations</span></li></ul></dd>
</dl>
<div id="document-content">
	<p class="hidden-print">Top of page</p>
	<p>THE EUROPEAN COMMISSION,</p>
	<p>   </p>
	<p>Having regard to the Treaty,</p>
	<table><tr><td><p>Article 1</p></td>
		<td><p>Duty applies</p></td></tr></table>
</div>
</body></html>`

func extract(t *testing.T, html, url string) (*lexdoc.Document, error) {
	t.Helper()
	e := goquery.NewExtractor("https://eur-lex.europa.eu")
	return e.Extract(&lexdoc.RawPage{URL: url, Body: []byte(html)})
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts metadata and content", func(t *testing.T) {
		t.Parallel()

		doc, err := extract(t, actPage, "https://eur-lex.europa.eu/legal-content/EN/ALL/?uri=OJ:L_202400123")
		require.NoError(t, err)

		assert.Equal(t, "32024R0123", doc.ID)
		assert.Equal(t, "Commission Implementing Regulation (EU) 2024/123 of 1 March 2024 laying down rules", doc.Title)
		require.NotNil(t, doc.ReferenceNumber)
		assert.Equal(t, "C/2024/1234", *doc.ReferenceNumber)
		require.NotNil(t, doc.ELI)
		assert.Equal(t, "http://data.europa.eu/eli/reg_impl/2024/123/oj", *doc.ELI)

		require.NotNil(t, doc.DocumentDate)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *doc.DocumentDate)
		require.NotNil(t, doc.EffectiveDate)
		assert.Equal(t, time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC), *doc.EffectiveDate)
		require.NotNil(t, doc.EndOfValidity)
		assert.Equal(t, 9999, doc.EndOfValidity.Year())

		assert.Equal(t, []string{"European Commission", "Directorate-General for Trade"}, doc.Authors)
		require.NotNil(t, doc.Form)
		assert.Equal(t, "Implementing regulation", *doc.Form)
		require.NotNil(t, doc.ResponsibleBody)
		assert.Equal(t, "DG TRADE", *doc.ResponsibleBody)
		assert.Equal(t, []string{"import", "anti-dumping duty", "Commercial policy", "11.60.40.20"}, doc.Labels)

		assert.Equal(t, "THE EUROPEAN COMMISSION,\nHaving regard to the Treaty,\nArticle 1 Duty applies", doc.Content)
		assert.Equal(t, []string{
			"https://eur-lex.europa.eu/legal-content/EN/TXT/?uri=OJ:L_202400123",
			"https://eur-lex.europa.eu/legal-content/EN/TXT/PDF/?uri=OJ:L_202400123",
		}, doc.URLs)
	})

	t.Run("drops reference numbers with unexpected shape", func(t *testing.T) {
		t.Parallel()

		html := `<p class="DocumentTitle">Document 32024R0001</p>
<p id="title">Regulation</p>
<p>Text of the EEA relevance note</p>
<div id="text"><p>Body</p></div>`

		doc, err := extract(t, html, "https://eur-lex.europa.eu/legal-content/EN/ALL/?uri=OJ:L_202400001")

		require.NoError(t, err)
		assert.Nil(t, doc.ReferenceNumber)
		assert.Nil(t, doc.ELI)
		assert.Nil(t, doc.DocumentDate)
		assert.Nil(t, doc.Form)
		assert.Empty(t, doc.Labels)
		assert.Equal(t, "Body", doc.Content)
	})

	t.Run("falls back to CELEX URLs", func(t *testing.T) {
		t.Parallel()

		html := `<p class="DocumentTitle">Document 32024L0001</p><p id="title">Directive</p><div id="TexteOnly"><p>Body</p></div>`

		doc, err := extract(t, html, "https://example.com/act")

		require.NoError(t, err)
		assert.Equal(t, "https://eur-lex.europa.eu/legal-content/EN/TXT/?uri=CELEX:32024L0001", doc.URLs[0])
	})

	t.Run("accepts alternative date formats", func(t *testing.T) {
		t.Parallel()

		html := `<p class="DocumentTitle">Document 32024R0001</p><p id="title">Regulation</p>
<dl class="NMetadata"><dt>Date of document:</dt><dd>01.03.2024</dd><dt>Date of effect:</dt><dd>2024-03-21</dd></dl>
<div id="text"><p>Body</p></div>`

		doc, err := extract(t, html, "")

		require.NoError(t, err)
		require.NotNil(t, doc.DocumentDate)
		require.NotNil(t, doc.EffectiveDate)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *doc.DocumentDate)
		assert.Equal(t, time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC), *doc.EffectiveDate)
	})
}

func TestExtractor_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
	}{
		{"missing document title", `<p id="title">Regulation</p><div id="text"><p>Body</p></div>`},
		{"missing title", `<p class="DocumentTitle">Document 32024R0001</p><div id="text"><p>Body</p></div>`},
		{"missing content section", `<p class="DocumentTitle">Document 32024R0001</p><p id="title">Regulation</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := extract(t, tt.html, "")

			assert.Equal(t, lexdoc.EMALFORMED, lexdoc.ErrorCode(err))
		})
	}
}
