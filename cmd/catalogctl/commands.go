package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Vaaraprasad44/movies2/config"
	"github.com/Vaaraprasad44/movies2/models"
	"github.com/Vaaraprasad44/movies2/optimistic"
	"github.com/Vaaraprasad44/movies2/services"
	"github.com/Vaaraprasad44/movies2/state"
)

func runList(svc *services.CatalogService, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "Case-insensitive search over title, overview and credits")
	genres := fs.String("genre", "", "Comma-separated genre names")
	yearFrom := fs.Int("year-from", 0, "Earliest release year")
	yearTo := fs.Int("year-to", 0, "Latest release year")
	language := fs.String("language", "", "Original language code, e.g. en")
	favOnly := fs.Bool("favorites", false, "Only movies flagged as favorites on the server")
	sortKey := fs.String("sort", "", "Sort key: title, year, rating or popularity")
	order := fs.String("order", "asc", "Sort direction: asc or desc")
	page := fs.Int("page", models.DefaultPage, "Page number")
	size := fs.Int("size", models.DefaultSize, "Page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filters := state.NewFilterState()
	filters.SetSearch(*search)
	if *genres != "" {
		filters.SetGenres(strings.Split(*genres, ","))
	}
	filters.SetYearRange(optionalInt(*yearFrom), optionalInt(*yearTo))
	filters.SetLanguage(*language)
	if *favOnly {
		fav := true
		filters.SetFavoriteOnly(&fav)
	}
	filters.SetSort(models.SortKey(*sortKey), models.SortDirection(*order))
	filters.SetSize(*size)
	filters.SetPage(*page)

	result, err := svc.List(filters.Filters())
	if err != nil {
		return err
	}

	for _, m := range result.Items {
		marker := " "
		if m.IsFavorite {
			marker = "*"
		}
		year := "----"
		if y, ok := m.ReleaseYear(); ok {
			year = strconv.Itoa(y)
		}
		fmt.Printf("%s %6d  %s  %s\n", marker, m.ID, year, m.Title)
	}
	fmt.Printf("Page %d of %d (%d movies)\n", result.Page, result.Pages, result.Total)
	return nil
}

func runGet(svc *services.CatalogService, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	m, err := svc.Get(id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (id %d)\n", m.Title, m.ID)
	if y, ok := m.ReleaseYear(); ok {
		fmt.Printf("  Released: %d\n", y)
	}
	if m.VoteAverage != nil {
		fmt.Printf("  Rating:   %.1f\n", *m.VoteAverage)
	}
	if len(m.Genres) > 0 {
		names := make([]string, len(m.Genres))
		for i, g := range m.Genres {
			names[i] = g.Name
		}
		fmt.Printf("  Genres:   %s\n", strings.Join(names, ", "))
	}
	if m.Overview != "" {
		fmt.Printf("  %s\n", m.Overview)
	}
	if m.IsFavorite {
		fmt.Println("  Favorite")
	}
	if m.PersonalRating != nil {
		fmt.Printf("  Personal rating: %d/10\n", *m.PersonalRating)
	}
	return nil
}

// runFavorite toggles the server-side flag through an optimistic mutation
// and mirrors the outcome into the local overlay. On a server failure the
// local view reverts to its pre-toggle state.
func runFavorite(svc *services.CatalogService, cfg *config.Config, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	m, err := svc.Get(id)
	if err != nil {
		return err
	}

	view := optimistic.NewView(func(msg string) {
		fmt.Fprintln(os.Stderr, msg)
	})
	view.Put(m)

	toggled := !m.IsFavorite
	mut, err := view.ApplyPatch(id, &models.UpdateMovieCommand{IsFavorite: &toggled})
	if err != nil {
		return err
	}

	serverFav, err := svc.ToggleFavorite(id)
	if err != nil {
		if rbErr := mut.Rollback(); rbErr != nil {
			return rbErr
		}
		return err
	}

	authoritative, err := svc.Get(id)
	if err != nil {
		return err
	}
	if err := mut.Commit(authoritative); err != nil {
		return err
	}

	overlay, db, err := openOverlay(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if serverFav {
		if err := overlay.Add(authoritative); err != nil {
			return fmt.Errorf("failed to save favorite locally: %w", err)
		}
		fmt.Printf("%s is now a favorite\n", authoritative.Title)
	} else {
		if err := overlay.Remove(id); err != nil {
			return fmt.Errorf("failed to remove local favorite: %w", err)
		}
		fmt.Printf("%s is no longer a favorite\n", authoritative.Title)
	}
	return nil
}

func runRate(svc *services.CatalogService, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rate <id> <1-10> [notes]")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid movie id %q", args[0])
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid rating %q", args[1])
	}
	var notes *string
	if len(args) > 2 {
		joined := strings.Join(args[2:], " ")
		notes = &joined
	}

	m, err := svc.Rate(id, rating, notes)
	if err != nil {
		return err
	}
	fmt.Printf("Rated %s %d/10\n", m.Title, rating)
	return nil
}

func runStats(svc *services.CatalogService) error {
	stats, err := svc.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Movies:    %d\n", stats.TotalMovies)
	fmt.Printf("Favorites: %d\n", stats.FavoritesCount)
	fmt.Printf("Rated:     %d\n", stats.RatedCount)
	if len(stats.TopGenres) > 0 {
		fmt.Println("Top genres:")
		for _, g := range stats.TopGenres {
			fmt.Printf("  %-20s %d\n", g.Name, g.Count)
		}
	}
	if len(stats.DecadeDistribution) > 0 {
		fmt.Println("By decade:")
		for _, d := range stats.DecadeDistribution {
			fmt.Printf("  %ds %d\n", d.Decade, d.Count)
		}
	}
	return nil
}

func idArg(args []string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("a movie id is required")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid movie id %q", args[0])
	}
	return id, nil
}

func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
