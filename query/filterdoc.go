package query

import "go.mongodb.org/mongo-driver/v2/bson"

// FilterDoc renders q's normalized filter back into a server-side BSON
// filter document, the inverse of the parsing FromFilter does. Both the
// mongo driver (executing the original workload for the benchmark
// harness) and the estimator (executing a derived query against the
// sample) need this, so it lives here rather than being duplicated in
// each.
func (q Query) FilterDoc() bson.D {
	filter := bson.D{}
	for _, e := range q.filter {
		filter = append(filter, bson.E{Key: e.Field, Value: predicateDoc(e.Pred)})
	}
	return filter
}

// FilterDocExcludingExists renders q's filter like FilterDoc, but omits
// any field whose predicate is the internal Exists widening marker. Used
// by the estimator's distinct-tuple key-count path, where the widened
// field contributes no value constraint worth sending to the sample
// driver — only the fields before it in the prefix scope the count.
func (q Query) FilterDocExcludingExists() bson.D {
	filter := bson.D{}
	for _, e := range q.filter {
		if e.Pred.kind() == kindExists {
			continue
		}
		filter = append(filter, bson.E{Key: e.Field, Value: predicateDoc(e.Pred)})
	}
	return filter
}

func predicateDoc(p Predicate) any {
	switch v := p.(type) {
	case Equality:
		return valueToAny(v.Value)
	case In:
		arr := bson.A{}
		for _, val := range v.Values {
			arr = append(arr, valueToAny(val))
		}
		return bson.D{{Key: "$in", Value: arr}}
	case Range:
		doc := bson.D{}
		if v.Lo != nil {
			op := "$gt"
			if v.LoIncl {
				op = "$gte"
			}
			doc = append(doc, bson.E{Key: op, Value: valueToAny(*v.Lo)})
		}
		if v.Hi != nil {
			op := "$lt"
			if v.HiIncl {
				op = "$lte"
			}
			doc = append(doc, bson.E{Key: op, Value: valueToAny(*v.Hi)})
		}
		return doc
	case Conjunction:
		doc := bson.D{}
		for _, sub := range v.Preds {
			if sd, ok := predicateDoc(sub).(bson.D); ok {
				doc = append(doc, sd...)
			}
		}
		return doc
	default:
		// the internal Exists widening marker: any value at all.
		return bson.D{{Key: "$exists", Value: true}}
	}
}

func valueToAny(v Value) any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num
	case KindString:
		return v.Str
	case KindTime:
		return v.Time
	default:
		return nil
	}
}
