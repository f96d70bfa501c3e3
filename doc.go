// Package mailroom wires the email corpus, the AI provider, and the two
// pipelines built on them: the retrieval-augmented query agent and the
// structured email generator.
//
//	m, err := mailroom.New("./mailroom_db", mailroom.WithAIConfig(ai.NewConfig(ai.WithHost("http://localhost:11434"))))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	index, _ := m.NewRetriever()
//	defer index.Release()
//	if err := index.LoadIndex(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	a, _ := m.NewAgent(index)
//	fmt.Println(a.ProcessQuery(ctx, "What did Acme propose last week?"))
package mailroom
