package jsonstream

// Object is an open JSON object scope. It is only valid inside the function
// it was passed to.
type Object struct {
	w   *Writer
	seq uint64
}

// Field writes a key with a scalar value. Values other than strings, bools,
// ints and floats are encoded by reflection.
func (o *Object) Field(key string, v any) error {
	if err := o.w.member(o.seq); err != nil {
		return err
	}
	o.w.stream.WriteObjectField(validUTF8(key))
	return o.w.value(v)
}

// Object writes a key whose value is a nested object filled by fn.
func (o *Object) Object(key string, fn func(*Object) error) error {
	if err := o.w.member(o.seq); err != nil {
		return err
	}
	o.w.stream.WriteObjectField(validUTF8(key))
	return o.w.scope(kindObject, func(seq uint64) error {
		return fn(&Object{w: o.w, seq: seq})
	})
}

// Array writes a key whose value is a nested array filled by fn.
func (o *Object) Array(key string, fn func(*Array) error) error {
	if err := o.w.member(o.seq); err != nil {
		return err
	}
	o.w.stream.WriteObjectField(validUTF8(key))
	return o.w.scope(kindArray, func(seq uint64) error {
		return fn(&Array{w: o.w, seq: seq})
	})
}

// Array is an open JSON array scope. It is only valid inside the function it
// was passed to.
type Array struct {
	w   *Writer
	seq uint64
}

// Value appends a scalar element.
func (a *Array) Value(v any) error {
	if err := a.w.member(a.seq); err != nil {
		return err
	}
	return a.w.value(v)
}

// Object appends an object element filled by fn.
func (a *Array) Object(fn func(*Object) error) error {
	if err := a.w.member(a.seq); err != nil {
		return err
	}
	return a.w.scope(kindObject, func(seq uint64) error {
		return fn(&Object{w: a.w, seq: seq})
	})
}

// Array appends an array element filled by fn.
func (a *Array) Array(fn func(*Array) error) error {
	if err := a.w.member(a.seq); err != nil {
		return err
	}
	return a.w.scope(kindArray, func(seq uint64) error {
		return fn(&Array{w: a.w, seq: seq})
	})
}
