// Package sdk provides a Go client for the ragdex HTTP API: document
// ingestion, similarity search and retrieval-augmented answer generation,
// blocking or streamed.
//
//	client := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//
//	doc, _ := client.CreateDocument(ctx, sdk.CreateDocumentRequest{
//	    Title:   "Go",
//	    Content: "Go is a compiled language.",
//	})
//
//	resp, _ := client.RAG(ctx, sdk.Query{Question: "Is Go compiled?"})
//	fmt.Println(resp.GeneratedAnswer)
//
// Streaming delivers the answer as it is generated:
//
//	_ = client.RAGStream(ctx, sdk.Query{Question: "Is Go compiled?"},
//	    func(e sdk.StreamEvent) error {
//	        if e.Type == sdk.EventChunk {
//	            fmt.Print(e.Content)
//	        }
//	        return nil
//	    })
package sdk
