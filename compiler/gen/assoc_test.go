package gen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlauto/compiler/load"
)

func TestAssociationsUserPost(t *testing.T) {
	td := blogData()
	td.ForeignKeys["posts"]["userId"].RuleUpdate = ""
	td.ForeignKeys["posts"]["userId"].RuleDelete = ""
	cfg := MustNewConfig(WithCaseModel("p"), WithSingularize(true))

	text, err := AssociationText(BuildRelations(td, cfg), td.ForeignKeys, cfg)

	require.NoError(t, err)
	assert.Equal(t, `  Post.belongsTo(User, { as: "user", foreignKey: "userId"});
  User.hasMany(Post, { as: "posts", foreignKey: "userId"});
`, text)
}

func TestAssociationsRules(t *testing.T) {
	td := blogData()
	cfg := MustNewConfig(WithCaseModel("p"), WithSingularize(true))

	_, owners, err := Associations(BuildRelations(td, cfg), td.ForeignKeys, cfg)

	require.NoError(t, err)
	assert.Contains(t, owners, `  User.hasMany(Post, { as: "posts", foreignKey: "userId", onUpdate: 'CASCADE',onDelete: 'SET NULL'});`+"\n")

	td.ForeignKeys["posts"]["userId"].RuleUpdate = ""
	_, owners, err = Associations(BuildRelations(td, cfg), td.ForeignKeys, cfg)
	require.NoError(t, err)
	assert.Contains(t, owners, `foreignKey: "userId", onDelete: 'SET NULL'});`)
	assert.NotContains(t, owners, "onUpdate")
}

func TestAssociationsLinePairs(t *testing.T) {
	rels := []*load.Relation{
		{ParentTable: "users", ParentModel: "users", ParentProp: "user", ParentID: "user_id", ChildTable: "profiles", ChildModel: "profiles", ChildProp: "profile", IsOne: true},
		{ParentTable: "users", ParentModel: "users", ParentProp: "author", ParentID: "author_id", ChildTable: "posts", ChildModel: "posts", ChildProp: "posts"},
	}
	fks := map[string]map[string]*load.ForeignKey{
		"users":    {},
		"profiles": {"user_id": {IsForeignKey: true}},
		"posts":    {"author_id": {IsForeignKey: true}},
	}

	m2m, owners, err := Associations(rels, fks, DefaultConfig())

	require.NoError(t, err)
	assert.Empty(t, m2m)
	lines := strings.Split(strings.TrimSuffix(owners, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `  profiles.belongsTo(users, { as: "user", foreignKey: "user_id"});`, lines[0])
	assert.Equal(t, `  users.hasOne(profiles, { as: "profile", foreignKey: "user_id"});`, lines[1])
	assert.Equal(t, `  posts.belongsTo(users, { as: "author", foreignKey: "author_id"});`, lines[2])
	assert.Equal(t, `  users.hasMany(posts, { as: "posts", foreignKey: "author_id"});`, lines[3])
}

func TestAssociationsManyToMany(t *testing.T) {
	td := tagData()
	cfg := DefaultConfig()

	text, err := AssociationText(BuildRelations(td, cfg), td.ForeignKeys, cfg)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, `  posts.belongsToMany(tags, { as: 'tags', through: post_tags, foreignKey: "postId", otherKey: "tagId" });`, lines[0])
	assert.Equal(t, `  tags.belongsToMany(posts, { as: 'posts', through: post_tags, foreignKey: "tagId", otherKey: "postId" });`, lines[1])
	for _, l := range lines[2:] {
		assert.NotContains(t, l, "belongsToMany")
	}
	assert.Equal(t, `  post_tags.belongsTo(posts, { as: "post", foreignKey: "postId"});`, lines[2])
	assert.Equal(t, `  posts.hasMany(post_tags, { as: "post_tags", foreignKey: "postId"});`, lines[3])
}

func TestAssociationsNoAlias(t *testing.T) {
	td := tagData()
	cfg := MustNewConfig(WithNoAlias(true))

	m2m, owners, err := Associations(BuildRelations(td, cfg), td.ForeignKeys, cfg)

	require.NoError(t, err)
	assert.NotContains(t, owners, "as:")
	assert.Contains(t, owners, `  post_tags.belongsTo(posts, { foreignKey: "postId"});`)
	// belongsToMany keeps its alias
	assert.Contains(t, m2m, "as: 'tags'")
}

func TestAssociationsCaseProp(t *testing.T) {
	rels := []*load.Relation{
		{ParentTable: "users", ParentModel: "User", ParentProp: "created_by", ParentID: "created_by_id", ChildTable: "posts", ChildModel: "Post", ChildProp: "blog_posts"},
		{ParentTable: "posts", ParentModel: "Post", ParentID: "post_id", ChildTable: "tags", ChildModel: "Tag", ChildProp: "tag_item", ChildID: "tag_id", JoinModel: "PostTag", IsM2M: true},
	}
	fks := map[string]map[string]*load.ForeignKey{
		"users": {},
		"tags":  {},
		"posts": {"created_by_id": {IsForeignKey: true}},
	}
	cfg := MustNewConfig(WithCaseProp("c"))

	text, err := AssociationText(rels, fks, cfg)

	require.NoError(t, err)
	assert.Equal(t, `  Post.belongsToMany(Tag, { as: 'tagItems', through: PostTag, foreignKey: "post_id", otherKey: "tag_id" });
  Post.belongsTo(User, { as: "createdBy", foreignKey: "created_by_id"});
  User.hasMany(Post, { as: "blogPosts", foreignKey: "created_by_id"});
`, text)
}

func TestAssociationsMissingMetadata(t *testing.T) {
	t.Run("missing child table", func(t *testing.T) {
		rels := []*load.Relation{{ParentTable: "users", ChildTable: "public.posts", ParentID: "userId"}}

		_, _, err := Associations(rels, map[string]map[string]*load.ForeignKey{"users": {}}, DefaultConfig())

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingMetadata))
		var mt *MissingTableError
		require.ErrorAs(t, err, &mt)
		assert.Equal(t, "posts", mt.Table)
		assert.Equal(t, 0, mt.Relation)
	})

	t.Run("missing column", func(t *testing.T) {
		rels := []*load.Relation{{ParentTable: "users", ChildTable: "posts", ParentID: "userId"}}

		_, _, err := Associations(rels, map[string]map[string]*load.ForeignKey{"posts": {}}, DefaultConfig())

		var mt *MissingTableError
		require.ErrorAs(t, err, &mt)
		assert.Equal(t, "userId", mt.Column)
	})

	t.Run("many to many needs no column", func(t *testing.T) {
		rels := []*load.Relation{{ParentModel: "a", ChildModel: "b", ChildTable: "b", ParentID: "a_id", ChildID: "b_id", JoinModel: "ab", ChildProp: "b", IsM2M: true}}

		_, _, err := Associations(rels, map[string]map[string]*load.ForeignKey{"b": {}}, DefaultConfig())

		assert.NoError(t, err)
	})
}

func TestAssociationsEmpty(t *testing.T) {
	m2m, owners, err := Associations(nil, nil, DefaultConfig())

	require.NoError(t, err)
	assert.Empty(t, m2m)
	assert.Empty(t, owners)
}

func TestAssociationsManyToManyWinsOverOne(t *testing.T) {
	rels := []*load.Relation{{
		ParentTable: "posts", ParentModel: "posts", ParentProp: "post", ParentID: "postId",
		ChildTable: "tags", ChildModel: "tags", ChildProp: "tag", ChildID: "tagId",
		JoinModel: "post_tags", IsM2M: true, IsOne: true,
	}}
	fks := map[string]map[string]*load.ForeignKey{"posts": {}, "tags": {}}

	m2m, owners, err := Associations(rels, fks, DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, `  posts.belongsToMany(tags, { as: 'tags', through: post_tags, foreignKey: "postId", otherKey: "tagId" });`+"\n", m2m)
	assert.Empty(t, owners)
}
