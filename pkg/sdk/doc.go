// Package askgames provides a Go client for the askgames question-answering
// API: ask a free-form question about the game catalog, or browse the catalog
// directly (free games, similarity, genre and release-date listings).
//
//	client := askgames.New("http://localhost:8080")
//	answer, _ := client.Ask(ctx, "¿Qué juego de puzles me recomiendas?")
//	fmt.Println(answer.Answer)
//
//	free, _ := client.FreeGames(ctx)
//	similar, _ := client.SimilarGames(ctx, "Portal 2")
package askgames
