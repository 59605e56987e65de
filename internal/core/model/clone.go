package model

// Deep-copy helpers. Clones share no slice or pointer state with their
// source: mutating a clone must never affect the original and vice versa.

func cloneKVPairs(pairs []KVPair) []KVPair {
	if pairs == nil {
		return nil
	}
	out := make([]KVPair, len(pairs))
	copy(out, pairs)
	return out
}

func cloneVariables(vars []Variable) []Variable {
	if vars == nil {
		return nil
	}
	out := make([]Variable, len(vars))
	copy(out, vars)
	return out
}

// Clone returns a fully independent copy of the request. The id is preserved.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	out := *r
	out.Headers = cloneKVPairs(r.Headers)
	out.QueryParams = cloneKVPairs(r.QueryParams)
	out.PathVariables = cloneKVPairs(r.PathVariables)
	out.Body = r.Body.Clone()
	out.Auth = r.Auth.Clone()
	return &out
}

// Clone returns an independent copy of the body.
func (b Body) Clone() Body {
	out := b
	out.FormData = cloneKVPairs(b.FormData)
	out.URLEncoded = cloneKVPairs(b.URLEncoded)
	if b.Raw != nil {
		raw := *b.Raw
		out.Raw = &raw
	}
	if b.GraphQL != nil {
		gql := *b.GraphQL
		out.GraphQL = &gql
	}
	if b.Binary != nil {
		bin := *b.Binary
		bin.Data = append([]byte(nil), b.Binary.Data...)
		out.Binary = &bin
	}
	return out
}

// Clone returns an independent copy of the auth descriptor.
func (a Auth) Clone() Auth {
	out := a
	if a.Basic != nil {
		v := *a.Basic
		out.Basic = &v
	}
	if a.Bearer != nil {
		v := *a.Bearer
		out.Bearer = &v
	}
	if a.APIKey != nil {
		v := *a.APIKey
		out.APIKey = &v
	}
	if a.OAuth1 != nil {
		v := *a.OAuth1
		out.OAuth1 = &v
	}
	if a.OAuth2 != nil {
		v := *a.OAuth2
		out.OAuth2 = &v
	}
	if a.Digest != nil {
		v := *a.Digest
		out.Digest = &v
	}
	if a.NTLM != nil {
		v := *a.NTLM
		out.NTLM = &v
	}
	if a.AWS != nil {
		v := *a.AWS
		out.AWS = &v
	}
	if a.Custom != nil {
		v := *a.Custom
		out.Custom = &v
	}
	return out
}

// Clone returns a deep copy of the folder subtree.
func (f *Folder) Clone() *Folder {
	if f == nil {
		return nil
	}
	out := *f
	out.Requests = make([]*Request, len(f.Requests))
	for i, r := range f.Requests {
		out.Requests[i] = r.Clone()
	}
	out.Folders = make([]*Folder, len(f.Folders))
	for i, sub := range f.Folders {
		out.Folders[i] = sub.Clone()
	}
	return &out
}

// Clone returns a deep copy of the collection tree.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	out := *c
	out.Requests = make([]*Request, len(c.Requests))
	for i, r := range c.Requests {
		out.Requests[i] = r.Clone()
	}
	out.Folders = make([]*Folder, len(c.Folders))
	for i, f := range c.Folders {
		out.Folders[i] = f.Clone()
	}
	out.Variables = cloneVariables(c.Variables)
	return &out
}

// Clone returns an independent copy of the environment.
func (e *Environment) Clone() *Environment {
	if e == nil {
		return nil
	}
	out := *e
	out.Variables = cloneVariables(e.Variables)
	return &out
}

// Clone returns an independent copy of the response.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Headers = cloneKVPairs(r.Headers)
	if r.Cookies != nil {
		out.Cookies = make([]Cookie, len(r.Cookies))
		copy(out.Cookies, r.Cookies)
	}
	if r.Timing != nil {
		t := *r.Timing
		out.Timing = &t
	}
	return &out
}
