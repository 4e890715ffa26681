package lazyjson

import "fmt"

func ExampleDecode() {
	type person struct {
		Name string
		Age  int
	}
	var p person
	if err := Decode([]byte(`{"Name":"Ada","Age":30}`), &p); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p.Name, p.Age)
	// Output: Ada 30
}

func ExampleEncode() {
	type point struct {
		X, Y int
	}
	data, err := Encode(point{X: 1, Y: 2})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(data))
	// Output: {"X":1,"Y":2}
}

func ExampleObject_Set() {
	o, err := ParseObject([]byte(`{"a":1}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := o.Set("b", []byte("2")); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(o.Raw()))
	// Output: {"a":1,"b":2}
}

func ExampleArray_Append() {
	a, err := ParseArray([]byte(`[1,2]`))
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := a.Append([]byte("3")); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(a.Raw()))
	// Output: [1,2,3]
}
