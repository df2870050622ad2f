// Package tagseek is an embeddable client for the tagseek search engine: query tagged
// entities with field terms and quoted phrases, narrow them with typed filters, and keep
// per-session filters, history and saved queries in memory, Redis, bbolt or Badger.
//
// # Sessions
//
//	client, _ := tagseek.New(ctx, tagseek.WithBolt("/var/lib/app/tagseek.db"))
//	defer client.Close()
//
//	s := client.Session("alice")
//	_, _ = s.AddFilter(ctx, tagseek.ByStatus, tagseek.Text("active"), "")
//	results, _ := s.Search(entities).Query("type:user platform").SortBy(tagseek.SortCreated).Desc().Do(ctx)
//
// # Suggestions and saved queries
//
//	hints, _ := s.Suggest(ctx, "typ", entities)
//	saved, _ := s.SaveQuery(ctx, "active users", "type:user", nil)
//	query, _ := s.LoadSavedQuery(ctx, saved.ID)
//
// Persistence failures never fail a call: the session keeps working from memory and the
// failure is logged and counted.
package tagseek
