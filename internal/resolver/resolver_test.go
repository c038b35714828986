package resolver

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/seenimoa/entitylens/internal/resolver/mocks"
	"github.com/seenimoa/entitylens/internal/source"
)

var errUpstream = errors.New("upstream down")

func TestResolveNamePrefersDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockDirectory(ctrl)
	pages := mocks.NewMockPages(ctrl)

	dir.EXPECT().HasCredentials().Return(true)
	dir.EXPECT().CompanyName(gomock.Any(), "AAPL").Return("Apple Inc.", nil)
	pages.EXPECT().PageTitle(gomock.Any(), gomock.Any()).Times(0)

	r := New(dir, pages, nil)
	if got := r.ResolveName(context.Background(), "AAPL"); got != "Apple Inc." {
		t.Errorf("ResolveName: got %q, want %q", got, "Apple Inc.")
	}
}

func TestResolveNameFallsBackToPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockDirectory(ctrl)
	pages := mocks.NewMockPages(ctrl)

	dir.EXPECT().HasCredentials().Return(true)
	dir.EXPECT().CompanyName(gomock.Any(), "MSFT").Return("", errUpstream)
	pages.EXPECT().PageTitle(gomock.Any(), "MSFT").Return("Microsoft Corporation", nil)

	r := New(dir, pages, nil)
	if got := r.ResolveName(context.Background(), "MSFT"); got != "Microsoft Corporation" {
		t.Errorf("ResolveName: got %q", got)
	}
}

func TestResolveNameSkipsDirectoryWithoutKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockDirectory(ctrl)
	pages := mocks.NewMockPages(ctrl)

	dir.EXPECT().HasCredentials().Return(false)
	pages.EXPECT().PageTitle(gomock.Any(), "TSLA").Return("Tesla, Inc.", nil)

	r := New(dir, pages, nil)
	if got := r.ResolveName(context.Background(), "TSLA"); got != "Tesla, Inc." {
		t.Errorf("ResolveName: got %q", got)
	}
}

func TestResolveNameReturnsSymbolWhenAllFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockDirectory(ctrl)
	pages := mocks.NewMockPages(ctrl)

	dir.EXPECT().HasCredentials().Return(true)
	dir.EXPECT().CompanyName(gomock.Any(), "ZZZ").Return("", errUpstream)
	pages.EXPECT().PageTitle(gomock.Any(), "ZZZ").Return("", source.ErrNoData)

	r := New(dir, pages, nil)
	if got := r.ResolveName(context.Background(), "ZZZ"); got != "ZZZ" {
		t.Errorf("ResolveName: got %q, want ZZZ", got)
	}
}

func TestResolveNameNilCollaborators(t *testing.T) {
	r := New(nil, nil, nil)
	if got := r.ResolveName(context.Background(), "IBM"); got != "IBM" {
		t.Errorf("ResolveName: got %q, want IBM", got)
	}
	if _, ok := r.ResolveSymbol(context.Background(), "IBM Corp"); ok {
		t.Error("ResolveSymbol: expected no symbol")
	}
}

func TestResolveSymbol(t *testing.T) {
	tests := []struct {
		name       string
		hasKey     bool
		matches    []source.SearchMatch
		searchErr  error
		pageSymbol string
		pageErr    error
		wantPage   bool
		want       string
		wantOK     bool
	}{
		{
			name:    "first search result wins",
			hasKey:  true,
			matches: []source.SearchMatch{{Symbol: "AAPL", Name: "Apple Inc."}, {Symbol: "APLE"}},
			want:    "AAPL",
			wantOK:  true,
		},
		{
			name:       "empty search falls back to lookup page",
			hasKey:     true,
			matches:    []source.SearchMatch{},
			wantPage:   true,
			pageSymbol: "TSLA",
			want:       "TSLA",
			wantOK:     true,
		},
		{
			name:       "search error falls back to lookup page",
			hasKey:     true,
			searchErr:  errUpstream,
			wantPage:   true,
			pageSymbol: "NVDA",
			want:       "NVDA",
			wantOK:     true,
		},
		{
			name:       "no key goes straight to lookup page",
			wantPage:   true,
			pageSymbol: "AMZN",
			want:       "AMZN",
			wantOK:     true,
		},
		{
			name:     "nothing found",
			hasKey:   true,
			wantPage: true,
			pageErr:  source.ErrNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			dir := mocks.NewMockDirectory(ctrl)
			pages := mocks.NewMockPages(ctrl)

			dir.EXPECT().HasCredentials().Return(tt.hasKey)
			if tt.hasKey {
				dir.EXPECT().Search(gomock.Any(), "Some Company", searchLimit).Return(tt.matches, tt.searchErr)
			}
			if tt.wantPage {
				pages.EXPECT().LookupSymbol(gomock.Any(), "Some Company").Return(tt.pageSymbol, tt.pageErr)
			}

			r := New(dir, pages, nil)
			got, ok := r.ResolveSymbol(context.Background(), "  Some Company ")
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("symbol: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveSymbolBlankName(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := New(mocks.NewMockDirectory(ctrl), mocks.NewMockPages(ctrl), nil)
	if _, ok := r.ResolveSymbol(context.Background(), "   "); ok {
		t.Error("blank name should not resolve")
	}
}
