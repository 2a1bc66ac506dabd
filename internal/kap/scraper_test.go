package kap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finrasyo/finrasyo-server/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<!DOCTYPE html>
<html><body>
<h1>BIST Şirketleri</h1>
<table>
  <tr><th>Kod</th><th>Şirket</th><th>Şehir</th></tr>
  <tr><td>GARAN</td><td>  TÜRKİYE GARANTİ
      BANKASI A.Ş.</td><td>İSTANBUL</td></tr>
  <tr><td>ISCTR, ISATR, ISBTR</td><td>TÜRKİYE İŞ BANKASI A.Ş.</td><td>İSTANBUL</td></tr>
  <tr><td>not-a-code</td><td>Bozuk Satır</td></tr>
  <tr><td>THYAO</td><td>TÜRK HAVA YOLLARI A.O.</td></tr>
  <tr><td>GARAN</td><td>Duplicate</td><td>X</td></tr>
  <tr><td colspan="3">Toplam</td></tr>
</table>
</body></html>`

func TestFetchCompanies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(listingPage))
	}))
	defer server.Close()

	companies, err := NewClient(server.URL, server.Client()).FetchCompanies(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []selection.ListedCompany{
		{Code: "GARAN", Name: "TÜRKİYE GARANTİ BANKASI A.Ş.", Sector: "İSTANBUL"},
		{Code: "ISCTR", Name: "TÜRKİYE İŞ BANKASI A.Ş.", Sector: "İSTANBUL"},
		{Code: "ISATR", Name: "TÜRKİYE İŞ BANKASI A.Ş.", Sector: "İSTANBUL"},
		{Code: "ISBTR", Name: "TÜRKİYE İŞ BANKASI A.Ş.", Sector: "İSTANBUL"},
		{Code: "THYAO", Name: "TÜRK HAVA YOLLARI A.O.", Sector: ""},
	}, companies)
}

func TestFetchCompaniesErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).FetchCompanies(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestFetchCompaniesEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>bakımda</p></body></html>"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).FetchCompanies(context.Background())
	assert.Error(t, err)
}
