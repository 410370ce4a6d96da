// Package gen generates Sequelize model sources from introspected table data.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	load.TableData (tables, foreign keys)
//	        ↓
//	   RenderModels      (one model source per table)
//	        ↓
//	   BuildRelations    (belongsTo / hasOne / hasMany / belongsToMany)
//	        ↓
//	   AssociationText   (association declarations)
//	        ↓
//	   InitModels        (init-models aggregator)
//	        ↓
//	   Writer            (directory + parallel file writes through a Sink)
//
// # Dialects
//
// Output is produced for one of four dialects selected by Config.Lang:
//
//   - LangTS: TypeScript classes and a typed init-models.ts
//   - LangESM: ECMAScript modules with default exports
//   - LangES6: CommonJS modules bound with const
//   - LangES5: CommonJS modules bound with var
//
// # Configuration
//
// Config is built with functional options:
//
//	cfg, err := gen.NewConfig(
//		gen.WithLang("ts"),
//		gen.WithDirectory("./models"),
//		gen.WithCaseModel("p"),
//		gen.WithSingularize(true),
//	)
//
// # Writing
//
// Writer validates that every relation references known tables before it
// touches the output, creates the directory once and writes all files
// concurrently. Tests write into a MemorySink:
//
//	sink := gen.NewMemorySink()
//	w, err := gen.NewWriter(td, cfg, gen.WithSink(sink))
//	if err != nil {
//		return err
//	}
//	err = w.Write(ctx)
//
// # Errors
//
// Errors carry sentinels usable with errors.Is: ErrMissingConfig for
// invalid settings, ErrMissingMetadata for relations that reference
// unknown tables and ErrGenerationFailed for filesystem failures.
package gen
