package prefix

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func randomSequence(n int) []float64 {
	seq := make([]float64, n)
	for i := range seq {
		// small integers keep float64 sums exact
		seq[i] = float64(rand.Intn(2001) - 1000)
	}
	return seq
}

func bruteSum(seq []float64, l, r int) float64 {
	var s float64
	for i := l; i <= r; i++ {
		s += seq[i]
	}
	return s
}

func bruteAlternating(seq []float64, l, r int) float64 {
	var s float64
	for i := l; i <= r; i++ {
		if i%2 == 0 {
			s += seq[i]
		} else {
			s -= seq[i]
		}
	}
	return s
}

func TestBuild(t *testing.T) {
	Convey("When the sequence is empty", t, func() {
		tbl := Build(nil)
		So(tbl.Len(), ShouldEqual, 0)
		So(tbl.All(), ShouldBeEmpty)
		So(tbl.Alternating(), ShouldBeEmpty)
		So(tbl.Describe()["length"], ShouldEqual, "0")
	})

	Convey("When the sequence has one element", t, func() {
		tbl := Build([]float64{-7.5})
		So(tbl.All(), ShouldResemble, []float64{-7.5})
		So(tbl.Alternating(), ShouldResemble, []float64{-7.5})
	})

	Convey("Given the sequence 1..5", t, func() {
		tbl := Build([]float64{1, 2, 3, 4, 5})
		So(tbl.All(), ShouldResemble, []float64{1, 3, 6, 10, 15})
		So(tbl.Alternating(), ShouldResemble, []float64{1, -1, 2, -2, 3})
		So(tbl.Describe()["total sum"], ShouldEqual, "15")
		So(tbl.Describe()["total alternating sum"], ShouldEqual, "3")
	})

	Convey("When a random sequence is built", t, func() {
		seq := randomSequence(500)
		tbl := Build(seq)
		n := len(seq)

		Convey("The last elements hold the full-range sums", func() {
			So(tbl.All()[n-1], ShouldEqual, bruteSum(seq, 0, n-1))
			So(tbl.Alternating()[n-1], ShouldEqual, bruteAlternating(seq, 0, n-1))
		})

		Convey("Building twice gives identical arrays", func() {
			again := Build(seq)
			So(again.All(), ShouldResemble, tbl.All())
			So(again.Alternating(), ShouldResemble, tbl.Alternating())
		})

		Convey("The input sequence is left untouched", func() {
			copied := append([]float64(nil), seq...)
			Build(seq)
			So(seq, ShouldResemble, copied)
		})
	})
}

func TestFromArrays(t *testing.T) {
	Convey("Arrays of different length are rejected", t, func() {
		_, err := FromArrays([]float64{1, 2}, []float64{1})
		So(err, ShouldNotBeNil)
	})

	Convey("Arrays from a built table round trip", t, func() {
		built := Build([]float64{4, 8, 15, 16, 23, 42})
		tbl, err := FromArrays(built.All(), built.Alternating())
		So(err, ShouldBeNil)
		So(tbl.Len(), ShouldEqual, 6)
		answers, err := tbl.Resolve([]Query{NewQuery(SumRange, 2, 4), NewQuery(AlternatingRange, 2, 4)})
		So(err, ShouldBeNil)
		So(answers, ShouldResemble, []float64{54, 22})
	})
}

func BenchmarkBuild(b *testing.B) {
	seq := randomSequence(100000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(seq)
	}
}
