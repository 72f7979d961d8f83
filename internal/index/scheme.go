package index

var (
	bPosts = []byte("posts")    // seq -> postBytes
	bDate  = []byte("idx_date") // lang -> sub-bucket(dateSeqKey -> seq)
	bPath  = []byte("idx_path") // pathKey -> seq
)
