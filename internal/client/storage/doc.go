// Package storage is the client's view of the remote private store.
//
// A Backend moves raw bytes for one user: the S3 backend keeps objects under
// "users/<address>/", the filesystem backend under "<dir>/<address>/".
// Storage layers per-file encryption with the user's content key on top.
//
//	backend, _ := storage.NewFSBackend(dir, id.Address)
//	st := storage.New(backend, id.ContentKey())
//	url, err := st.PutFile(ctx, "notes.txt", []byte("hi"), storage.PutOptions{Encrypt: true, WasString: true})
package storage
